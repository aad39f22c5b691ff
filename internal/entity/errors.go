package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPlateNotFound    = errors.New("plate not found")
	ErrAccountNotLinked = errors.New("account not linked")
	ErrClientNotFound   = errors.New("client not found")
)

var (
	ErrGatewayAuth       = errors.New("payment gateway authentication failed")
	ErrSettlementPartial = errors.New("settlement partially applied")
)

// GatewayError carries the gateway's own rejection payload.
type GatewayError struct {
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error %s: %s", e.Code, e.Description)
}
