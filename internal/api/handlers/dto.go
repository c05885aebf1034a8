package handlers

import (
	"errors"

	"MerchantWarriorGateway/internal/domain/gateway"
)

var errPaymentMethod = errors.New("exactly one of card or card_id is required")

type CardRequest struct {
	Number            string `json:"number" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Month             int    `json:"month" binding:"required,min=1,max=12"`
	Year              int    `json:"year" binding:"required"`
	VerificationValue string `json:"verification_value"`
}

func (r CardRequest) toDomain() gateway.CardDetails {
	return gateway.CardDetails{
		Number:            r.Number,
		Name:              r.Name,
		Month:             r.Month,
		Year:              r.Year,
		VerificationValue: r.VerificationValue,
	}
}

type OptionsRequest struct {
	OrderID         string                `json:"order_id"`
	IP              string                `json:"ip"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone"`
	StoreID         string                `json:"store_id"`
	RecurringFlag   *bool                 `json:"recurring_flag"`
	DescriptorName  string                `json:"descriptor_name"`
	DescriptorCity  string                `json:"descriptor_city"`
	DescriptorState string                `json:"descriptor_state"`
	BillingAddress  *gateway.Address      `json:"billing_address"`
	Address         *gateway.Address      `json:"address"`
	ThreeDSecure    *gateway.ThreeDSecure `json:"three_d_secure"`
}

func (r OptionsRequest) toDomain(currency string) gateway.Options {
	return gateway.Options{
		OrderID:         r.OrderID,
		Currency:        currency,
		IP:              r.IP,
		Email:           r.Email,
		Phone:           r.Phone,
		StoreID:         r.StoreID,
		RecurringFlag:   r.RecurringFlag,
		DescriptorName:  r.DescriptorName,
		DescriptorCity:  r.DescriptorCity,
		DescriptorState: r.DescriptorState,
		BillingAddress:  r.BillingAddress,
		Address:         r.Address,
		ThreeDSecure:    r.ThreeDSecure,
	}
}

// PaymentRequest is the body of authorize and purchase.
type PaymentRequest struct {
	Amount   string         `json:"amount" binding:"required"`
	Currency string         `json:"currency"`
	Card     *CardRequest   `json:"card"`
	CardID   string         `json:"card_id"`
	Options  OptionsRequest `json:"options"`
}

func (r PaymentRequest) paymentMethod() (gateway.PaymentMethod, error) {
	switch {
	case r.Card != nil && r.CardID == "":
		return r.Card.toDomain(), nil
	case r.Card == nil && r.CardID != "":
		return gateway.StoredCardToken{ID: r.CardID}, nil
	default:
		return nil, errPaymentMethod
	}
}

// ReferenceRequest is the body of capture and refund.
type ReferenceRequest struct {
	Amount   string         `json:"amount" binding:"required"`
	Currency string         `json:"currency"`
	Options  OptionsRequest `json:"options"`
}

type VoidRequest struct {
	Amount string `json:"amount"`
}

type StoreCardRequest struct {
	Card CardRequest `json:"card"`
}
