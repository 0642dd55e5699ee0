package models

// LicenseRecord represents one license issuance result.
//
// Timestamp is only populated client-side when the operator console enriches a
// returned record for its local history; the server never sets it. CreatedAt is
// the server-side issuance timestamp (ISO 8601).
type LicenseRecord struct {
	Success        bool   `json:"success"`
	LicenseKey     string `json:"licenseKey"`
	ExpirationDate string `json:"expirationDate"`
	MacAddress     string `json:"macAddress"`
	CreatedAt      string `json:"createdAt"`
	Message        string `json:"message,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}
