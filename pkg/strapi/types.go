package strapi

// Response is the envelope every content API read returns.
type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta carries response metadata.
type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes the page that was returned.
type PaginationMeta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Entity is the {id, attributes} wrapper around every record.
type Entity[T any] struct {
	ID         int `json:"id"`
	Attributes T   `json:"attributes"`
}

// Timestamps are the bookkeeping attributes present on every entity.
type Timestamps struct {
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
	PublishedAt *string `json:"publishedAt,omitempty"`
}

// SingleRelation is a to-one relation or single media field: {data: entity|null}.
type SingleRelation[T any] struct {
	Data *Entity[T] `json:"data"`
}

// Attributes returns the related record, or nil when the relation is empty.
func (r *SingleRelation[T]) Attributes() *T {
	if r == nil {
		return nil
	}
	return ExtractAttributes(r.Data)
}

// ManyRelation is a to-many relation or multiple media field: {data: [entity...]}.
type ManyRelation[T any] struct {
	Data []Entity[T] `json:"data"`
}

// Attributes returns the related records; never nil.
func (r *ManyRelation[T]) Attributes() []T {
	if r == nil {
		return []T{}
	}
	return ExtractAttributesArray(r.Data)
}

// Image is a file record from the upload plugin.
type Image struct {
	Name            string        `json:"name"`
	AlternativeText string        `json:"alternativeText,omitempty"`
	Caption         string        `json:"caption,omitempty"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	Formats         *ImageFormats `json:"formats,omitempty"`
	Hash            string        `json:"hash"`
	Ext             string        `json:"ext"`
	Mime            string        `json:"mime"`
	Size            float64       `json:"size"`
	URL             string        `json:"url"`
	PreviewURL      string        `json:"previewUrl,omitempty"`
	Provider        string        `json:"provider"`
	Timestamps
}

// ImageFormats holds the responsive renditions generated for an image.
type ImageFormats struct {
	Thumbnail *ImageFormat `json:"thumbnail,omitempty"`
	Small     *ImageFormat `json:"small,omitempty"`
	Medium    *ImageFormat `json:"medium,omitempty"`
	Large     *ImageFormat `json:"large,omitempty"`
}

// ImageFormat is one rendition of an image.
type ImageFormat struct {
	Name   string  `json:"name"`
	Hash   string  `json:"hash"`
	Ext    string  `json:"ext"`
	Mime   string  `json:"mime"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Size   float64 `json:"size"`
	Path   string  `json:"path,omitempty"`
	URL    string  `json:"url"`
}

// AltText returns the alternative text, falling back to the file name.
func (i Image) AltText() string {
	if i.AlternativeText != "" {
		return i.AlternativeText
	}
	return i.Name
}

// URLs returns the original URL followed by every rendition URL.
func (i Image) URLs() []string {
	urls := []string{}
	if i.URL != "" {
		urls = append(urls, i.URL)
	}
	if i.Formats == nil {
		return urls
	}
	for _, f := range []*ImageFormat{i.Formats.Thumbnail, i.Formats.Small, i.Formats.Medium, i.Formats.Large} {
		if f != nil && f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return urls
}
