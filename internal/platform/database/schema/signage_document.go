package schema

// SignageDocumentTable represents the 'signage.document' table
type SignageDocumentTable struct {
	Table     string
	ID        string
	AccountID string
	Filename  string
	FilePath  string
	SortOrder string
	PageCount string
	SizeBytes string
	CreatedAt string
}

// SignageDocument is the schema definition for signage.document
var SignageDocument = SignageDocumentTable{
	Table:     "signage.document",
	ID:        "id",
	AccountID: "accountid",
	Filename:  "filename",
	FilePath:  "filepath",
	SortOrder: "sortorder",
	PageCount: "pagecount",
	SizeBytes: "sizebytes",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t SignageDocumentTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.Filename, t.FilePath, t.SortOrder,
		t.PageCount, t.SizeBytes, t.CreatedAt,
	}
}
