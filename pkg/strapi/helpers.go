package strapi

import "strings"

// MediaURL resolves a media path against base. Absolute http(s) URLs are
// returned unchanged and an empty path stays empty.
func MediaURL(base, url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http") {
		return url
	}
	return base + url
}

// ExtractAttributes unwraps an entity; nil in, nil out.
func ExtractAttributes[T any](entity *Entity[T]) *T {
	if entity == nil {
		return nil
	}
	return &entity.Attributes
}

// ExtractAttributesArray unwraps a list of entities. The result is never nil.
func ExtractAttributesArray[T any](entities []Entity[T]) []T {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Attributes)
	}
	return out
}
