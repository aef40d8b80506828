package models

// Reference pairs a stable slug with its display name.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ImageRecord is one generated (or placeholder) image inside a session.
type ImageRecord struct {
	ID       string    `json:"id"`
	RoomType Reference `json:"roomType"`
	URL      string    `json:"url"`
	Selected bool      `json:"selected"`
}

// Session records one committed batch-generation event covering one or more
// room types under a single style/architect/designer/color/quality selection.
type Session struct {
	ID           string        `json:"id"`
	CreatedAt    string        `json:"createdAt"`
	DesignStyle  Reference     `json:"designStyle"`
	Architect    Reference     `json:"architect"`
	Designer     Reference     `json:"designer"`
	ColorWheel   string        `json:"colorWheel"`
	AspectRatio  string        `json:"aspectRatio"`
	ImageQuality string        `json:"imageQuality"`
	Images       []ImageRecord `json:"images"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	RoomTypeIDs       []string `json:"room_type_ids"`
	DesignStyleID     string   `json:"design_style_id"`
	ArchitectID       string   `json:"architect_id"`
	DesignerID        string   `json:"designer_id"`
	ColorWheelID      string   `json:"color_wheel_id"`
	AspectRatioID     string   `json:"aspect_ratio_id"`
	ImageQualityID    string   `json:"image_quality_id"`
	FlooringTypeID    string   `json:"flooring_type_id,omitempty"`
	FloorBoardWidthID string   `json:"floor_board_width_id,omitempty"`
}

// APIResult is the per-room outcome shape returned to clients. The prompt is
// always present, even on failure, for diagnostics.
type APIResult struct {
	Success   bool   `json:"success"`
	Data      string `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ModelUsed string `json:"model_used,omitempty"`
	Prompt    string `json:"prompt"`
}

// RoomResult pairs a requested room type with its outcome.
type RoomResult struct {
	RoomTypeID string    `json:"room_type_id"`
	Result     APIResult `json:"result"`
}

// GenerateResponse is the response of POST /api/generate.
type GenerateResponse struct {
	Success bool         `json:"success"`
	Results []RoomResult `json:"results"`
}
