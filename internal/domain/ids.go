package domain

// SubjectID is the authenticated dashboard subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the credential service.
type SubjectID string

// IndividualID is an internal identifier for a guest record.
type IndividualID string

// InvitationCode is the short code shared by every member of one invited group.
type InvitationCode string
