package risk

import "fmt"

// ValidationError reports malformed transaction input (unparsable date,
// missing amount). It is fatal to the single decision call and propagates to
// the caller unmodified.
type ValidationError struct {
	TransactionID string
	Field         string
	Reason        string
}

func (e *ValidationError) Error() string {
	if e.TransactionID != "" {
		return fmt.Sprintf("invalid transaction %s: %s: %s", e.TransactionID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid transaction: %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports invalid engine parameters. It is fatal at engine
// construction time, never per call.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid risk configuration: %s: %s", e.Param, e.Reason)
}
