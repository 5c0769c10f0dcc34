package entity

import "time"

// Image is an archived image record. FileHash is the SHA-256 of the file
// contents and is the stable identifier used in URLs.
type Image struct {
	ID int64 `json:"id"`

	Filepath string `json:"filepath"`
	Filename string `json:"filename"`
	FileHash string `json:"file_hash"`
	FileSize int64  `json:"file_size"`

	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	ProcessedAt time.Time `json:"processed_at"`

	// Description is populated on reads that join the descriptions table.
	Description *string `json:"description,omitempty"`
}

// Description is the model-generated caption for an image, together with the
// embedding of that caption (little-endian float32 bytes) and a small JPEG
// thumbnail for result grids.
type Description struct {
	ID        int64  `json:"id"`
	ImageHash string `json:"image_hash"`
	Text      string `json:"description"`
	Embedding []byte `json:"-"`
	Thumbnail []byte `json:"-"`
}
