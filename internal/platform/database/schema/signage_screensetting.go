package schema

// SignageScreenSettingTable represents the 'signage.screensetting' table
type SignageScreenSettingTable struct {
	Table        string
	AccountID    string
	PageDuration string
	UpdatedAt    string
}

var SignageScreenSetting = SignageScreenSettingTable{
	Table:        "signage.screensetting",
	AccountID:    "accountid",
	PageDuration: "pageduration",
	UpdatedAt:    "updatedat",
}
