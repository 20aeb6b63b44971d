package medimind

// FileInfo describes one uploaded document as reported by the backend.
type FileInfo struct {
	Name   string  `json:"name"`
	Size   int64   `json:"size"`
	SizeKB float64 `json:"size_kb"`
}

type FilesResponse struct {
	Files []FileInfo `json:"files"`
	Count int        `json:"count"`
}

type UploadError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// UploadResponse lists the names the server stored the documents under.
// They can differ from the submitted names when the server renames on
// collision.
type UploadResponse struct {
	Status string        `json:"status"`
	Files  []string      `json:"files"`
	Count  int           `json:"count"`
	Errors []UploadError `json:"errors,omitempty"`
}

type DeleteResponse struct {
	Status  string `json:"status"`
	File    string `json:"file,omitempty"`
	Message string `json:"message,omitempty"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// PatientData is the demographic snapshot extracted from the uploaded
// documents. Fields are nil when not found in the records.
type PatientData struct {
	Name        *string           `json:"name"`
	Age         *string           `json:"age"`
	DateOfBirth *string           `json:"date_of_birth"`
	Gender      *string           `json:"gender"`
	PatientID   *string           `json:"patient_id"`
	Address     *string           `json:"address"`
	Phone       *string           `json:"phone"`
	Email       *string           `json:"email"`
	VitalSigns  map[string]string `json:"vital_signs,omitempty"`
	Message     string            `json:"message,omitempty"`
}

type ClinicalEvent struct {
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

type LabResult struct {
	TestName       string `json:"test_name"`
	Value          string `json:"value"`
	Units          string `json:"units,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
	Abnormal       bool   `json:"abnormal,omitempty"`
	Source         string `json:"source,omitempty"`
}

type Medication struct {
	Name   string `json:"name"`
	Dose   string `json:"dose,omitempty"`
	Source string `json:"source,omitempty"`
}

type ClinicalSummary struct {
	TotalEvents      int `json:"total_events"`
	TotalLabs        int `json:"total_labs"`
	AbnormalLabs     int `json:"abnormal_labs"`
	TotalMedications int `json:"total_medications"`
	TotalRedFlags    int `json:"total_red_flags"`
}

// ClinicalData is the read-only snapshot of structured facts the backend
// extracted from the document set. It has no bearing on the stream
// assembler; the CLI prints it as text.
type ClinicalData struct {
	Events      []ClinicalEvent   `json:"events"`
	Labs        []LabResult       `json:"labs"`
	Medications []Medication      `json:"medications"`
	RedFlags    []string          `json:"red_flags"`
	Sections    map[string]string `json:"sections,omitempty"`
	PatientData *PatientData      `json:"patient_data,omitempty"`
	Summary     ClinicalSummary   `json:"summary"`
	Message     string            `json:"message,omitempty"`
}

// askRequest is the body of a question submission. The current document set
// is implicit on the server side.
type askRequest struct {
	Question string `json:"question"`
}
