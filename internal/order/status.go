package order

type Status string

const (
	StatusPending Status = "pending"
)

// Label is the customer-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	default:
		return string(s)
	}
}
