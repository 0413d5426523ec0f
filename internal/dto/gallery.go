package dto

type GalleryImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type GalleryResponse struct {
	Total  int            `json:"total"`
	Images []GalleryImage `json:"images"`
}

type PhotoResponse struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	TakenAt       string   `json:"taken_at,omitempty"`
	DominantColor string   `json:"dominant_color,omitempty"`
	Objects       []string `json:"objects,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

type UploadResponse struct {
	Message  string   `json:"message"`
	Uploaded []string `json:"uploaded"`
	Errors   []string `json:"errors,omitempty"`
}
