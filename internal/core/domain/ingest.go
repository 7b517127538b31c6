package domain

// FileInput is the extracted text of one uploaded file.
type FileInput struct {
	Text      string `json:"text"`
	Label     string `json:"label"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

// IngestRequest adds sources to an owner's manual.
type IngestRequest struct {
	// EmbedRatio is the prefix fraction of chunks to embed.
	// Out-of-range values are clamped; zero uses the configured default.
	EmbedRatio float64 `json:"embedRatio"`

	// Mode is "append" (default) or "replace".
	Mode string `json:"mode,omitempty"`

	// Instruction is optional free text stored as an instruction source.
	Instruction string `json:"instructionText,omitempty"`

	Files []FileInput `json:"files"`
}
