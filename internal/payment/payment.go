package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
)

// Gateway models the external card/UPI processor. The real integration is
// out of scope; SimulatedGateway stands in for it.
type Gateway interface {
	Charge(ctx context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentOutcome, error)
}

type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, method domain.PaymentMethod, amount decimal.Decimal) (domain.PaymentOutcome, error) {
	return domain.PaymentOutcome{
		Success:        true,
		Method:         method,
		AmountReceived: amount,
		Change:         decimal.Zero,
		Message:        fmt.Sprintf("%s payment successful", method),
	}, nil
}

// Processor turns a bill total into a payment outcome. Cash is settled
// locally from the received amount; card and UPI go through the gateway.
type Processor struct {
	gateway Gateway
}

func NewProcessor(gateway Gateway) *Processor {
	return &Processor{gateway: gateway}
}

func (p *Processor) Process(ctx context.Context, method domain.PaymentMethod, total decimal.Decimal, cashReceived decimal.Decimal) (domain.PaymentOutcome, error) {
	switch method {
	case domain.MethodCash:
		return processCash(total, cashReceived), nil
	case domain.MethodCard, domain.MethodUPI:
		return p.gateway.Charge(ctx, method, total)
	default:
		return domain.PaymentOutcome{}, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidAttribute, method)
	}
}

// A shortfall is not an error: the outcome reports the failure and the bill
// stays open so the operator can retry.
func processCash(total decimal.Decimal, received decimal.Decimal) domain.PaymentOutcome {
	if received.LessThan(total) {
		return domain.PaymentOutcome{
			Success: false,
			Method:  domain.MethodCash,
			Message: fmt.Sprintf("insufficient cash: need %s more", total.Sub(received)),
		}
	}

	change := received.Sub(total)
	return domain.PaymentOutcome{
		Success:        true,
		Method:         domain.MethodCash,
		AmountReceived: received,
		Change:         change,
		Message:        fmt.Sprintf("payment successful, change %s", change),
	}
}
