package model

// IntentClassification is the per-turn intent result. The classifier is
// asked to set exactly one flag, but that is not guaranteed; callers resolve
// conflicts with a fixed priority (greeting > personal data > info request).
// It is transient and never persisted.
type IntentClassification struct {
	Greeting             bool `json:"greeting"`
	AsksForInfo          bool `json:"ask_for_info"`
	ProvidesPersonalData bool `json:"data_personal"`
}

// RegistrationExtract is the structured result of a registration turn:
// whatever identity fields could be pulled from the conversation so far,
// plus the model's own Spanish reply to keep the flow moving. Transient.
type RegistrationExtract struct {
	Identifier string `json:"identificacion"`
	FullName   string `json:"nombre"`
	Phone      string `json:"telefono"`
	Email      string `json:"correo"`
	IsNew      bool   `json:"is_new"`
	IsComplete bool   `json:"is_complete"`
	Reply      string `json:"response"`
}

// HasIdentifier reports whether a format-valid identifier was extracted.
// Malformed identifiers are treated as not extracted at all, so they never
// reach the registry.
func (e *RegistrationExtract) HasIdentifier() bool {
	return ValidIdentifier(e.Identifier)
}

// FieldsValid reports whether every registration field passed its format
// rule. IsComplete is only honored when this holds.
func (e *RegistrationExtract) FieldsValid() bool {
	return ValidIdentifier(e.Identifier) &&
		ValidName(e.FullName) &&
		ValidPhone(e.Phone) &&
		ValidEmail(e.Email)
}
