package transfer

// Document is the body of a Transfer API task submission.
type Document struct {
	DataType            string `json:"DATA_TYPE"`
	SubmissionID        string `json:"submission_id,omitempty"`
	SourceEndpoint      string `json:"source_endpoint"`
	DestinationEndpoint string `json:"destination_endpoint"`
	Label               string `json:"label,omitempty"`
	Items               []Item `json:"DATA"`
}

// Item is a single path pair of a transfer task.
type Item struct {
	DataType        string `json:"DATA_TYPE"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Recursive       bool   `json:"recursive"`
}

// NewDocument starts a transfer document between two collections.
func NewDocument(source, destination, label string) *Document {
	return &Document{
		DataType:            "transfer",
		SourceEndpoint:      source,
		DestinationEndpoint: destination,
		Label:               label,
		Items:               []Item{},
	}
}

// AddItem appends a path pair to the document.
func (d *Document) AddItem(source, destination string, recursive bool) {
	d.Items = append(d.Items, Item{
		DataType:        "transfer_item",
		SourcePath:      source,
		DestinationPath: destination,
		Recursive:       recursive,
	})
}
