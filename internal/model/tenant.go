package model

// Tenant identifies the site owner on the ContextHub API.
type Tenant struct {
	ID            ID     `json:"id"`
	LegacyID      ID     `json:"_id"`
	Name          string `json:"name"`
	DefaultLocale string `json:"defaultLocale"`
}

// Identifier returns the tenant id, preferring the modern field.
func (t Tenant) Identifier() string {
	return FirstID(t.ID, t.LegacyID).String()
}
