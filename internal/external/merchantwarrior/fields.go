package merchantwarrior

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"

	"MerchantWarriorGateway/internal/domain/gateway"

	"github.com/google/go-querystring/query"
)

const (
	maxProductLength = 34
	productIDBytes   = 15
)

var nameDisallowed = regexp.MustCompile(`[^a-zA-Z. -]`)

// Fields is the flat request vocabulary sent to the gateway.
type Fields map[string]string

// merge copies the url-tagged fields of a block struct into f. Blocks are
// fixed struct types, so an encoding error is a programming error.
func (f Fields) merge(v any) {
	values, err := query.Values(v)
	if err != nil {
		panic(fmt.Sprintf("merchantwarrior: encode %T: %v", v, err))
	}
	for k := range values {
		f[k] = values.Get(k)
	}
}

func (f Fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

type amountBlock struct {
	Amount   string `url:"transactionAmount"`
	Currency string `url:"transactionCurrency"`
	Hash     string `url:"hash"`
}

type addressBlock struct {
	Name     string `url:"customerName"`
	Country  string `url:"customerCountry"`
	State    string `url:"customerState"`
	City     string `url:"customerCity"`
	Address  string `url:"customerAddress"`
	PostCode string `url:"customerPostCode"`
	IP       string `url:"customerIP"`
	Phone    string `url:"customerPhone"`
	Email    string `url:"customerEmail"`
}

type cardBlock struct {
	Number string `url:"paymentCardNumber"`
	Name   string `url:"paymentCardName"`
	Expiry string `url:"paymentCardExpiry"`
	CSC    string `url:"paymentCardCSC,omitempty"`
}

type tokenBlock struct {
	CardID string `url:"cardID"`
}

type storeCardBlock struct {
	Name        string `url:"cardName"`
	Number      string `url:"cardNumber"`
	ExpiryMonth string `url:"cardExpiryMonth"`
	ExpiryYear  string `url:"cardExpiryYear"`
}

type extrasBlock struct {
	RecurringFlag   *bool  `url:"recurringFlag,omitempty"`
	DescriptorName  string `url:"descriptorName,omitempty"`
	DescriptorCity  string `url:"descriptorCity,omitempty"`
	DescriptorState string `url:"descriptorState,omitempty"`
	StoreID         string `url:"storeID,omitempty"`
}

type threeDSBlock struct {
	ECI     string `url:"threeDSEci,omitempty"`
	XID     string `url:"threeDSXid,omitempty"`
	CAVV    string `url:"threeDSCavv,omitempty"`
	Status  string `url:"threeDSStatus,omitempty"`
	Version string `url:"threeDSV2Version,omitempty"`
}

// paymentFields builds processAuth and processCard requests.
func paymentFields(creds gateway.Credentials, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (Fields, error) {
	f := Fields{}
	addAmount(f, creds, money, opts)
	addOrderID(f, opts)
	addAddress(f, opts)
	if err := addPaymentMethod(f, method); err != nil {
		return nil, err
	}
	f.merge(extrasBlock{
		RecurringFlag:   opts.RecurringFlag,
		DescriptorName:  opts.DescriptorName,
		DescriptorCity:  opts.DescriptorCity,
		DescriptorState: opts.DescriptorState,
		StoreID:         opts.StoreID,
	})
	addThreeDS(f, opts)
	return f, nil
}

func captureFields(creds gateway.Credentials, money gateway.Money, transactionID string, opts gateway.Options) Fields {
	f := referenceFields(creds, money, transactionID, opts)
	f["captureAmount"] = money.Format()
	return f
}

func refundFields(creds gateway.Credentials, money gateway.Money, transactionID string, opts gateway.Options) Fields {
	f := referenceFields(creds, money, transactionID, opts)
	f["refundAmount"] = money.Format()
	return f
}

func referenceFields(creds gateway.Credentials, money gateway.Money, transactionID string, opts gateway.Options) Fields {
	f := Fields{}
	addAmount(f, creds, money, opts)
	f["transactionID"] = transactionID
	addDescriptors(f, opts)
	return f
}

// voidFields requires opts.Amount: the gateway checks it against the original
// charge but this adapter has no way to look it up.
func voidFields(creds gateway.Credentials, transactionID string, opts gateway.Options) (Fields, error) {
	if opts.Amount == "" {
		return nil, ErrMissingVoidAmount
	}
	return Fields{
		"transactionAmount": opts.Amount,
		"hash":              VoidVerificationHash(creds, transactionID),
		"transactionID":     transactionID,
	}, nil
}

func storeFields(card gateway.CardDetails) Fields {
	f := Fields{}
	f.merge(storeCardBlock{
		Name:        scrubName(card.Name),
		Number:      card.Number,
		ExpiryMonth: card.ExpiryMonth(),
		ExpiryYear:  card.ExpiryYear(),
	})
	return f
}

func addAmount(f Fields, creds gateway.Credentials, money gateway.Money, opts gateway.Options) {
	amount := money.Format()
	currency := money.CurrencyOr(opts.Currency)
	f.merge(amountBlock{
		Amount:   amount,
		Currency: currency,
		Hash:     VerificationHash(creds, amount, currency),
	})
}

func addOrderID(f Fields, opts gateway.Options) {
	if opts.OrderID != "" {
		f["transactionProduct"] = truncate(opts.OrderID, maxProductLength)
		return
	}
	f["transactionProduct"] = randomProductID()
}

func addAddress(f Fields, opts gateway.Options) {
	addr := opts.CustomerAddress()
	if addr == nil {
		return
	}
	f.merge(addressBlock{
		Name:     scrubName(addr.Name),
		Country:  addr.Country,
		State:    firstNonEmpty(addr.State, "N/A"),
		City:     addr.City,
		Address:  addr.Address1,
		PostCode: addr.Zip,
		IP:       firstNonEmpty(addr.IP, opts.IP),
		Phone:    firstNonEmpty(addr.Phone, opts.Phone),
		Email:    firstNonEmpty(addr.Email, opts.Email),
	})
}

func addPaymentMethod(f Fields, method gateway.PaymentMethod) error {
	switch pm := method.(type) {
	case gateway.CardDetails:
		f.merge(cardBlock{
			Number: pm.Number,
			Name:   scrubName(pm.Name),
			Expiry: pm.Expiry(),
			CSC:    pm.VerificationValue,
		})
	case *gateway.CardDetails:
		if pm == nil {
			return ErrUnsupportedPaymentMethod
		}
		return addPaymentMethod(f, *pm)
	case gateway.StoredCardToken:
		f.merge(tokenBlock{CardID: pm.ID})
	case *gateway.StoredCardToken:
		if pm == nil {
			return ErrUnsupportedPaymentMethod
		}
		return addPaymentMethod(f, *pm)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPaymentMethod, method)
	}
	return nil
}

func addDescriptors(f Fields, opts gateway.Options) {
	f.merge(extrasBlock{
		DescriptorName:  opts.DescriptorName,
		DescriptorCity:  opts.DescriptorCity,
		DescriptorState: opts.DescriptorState,
	})
}

func addThreeDS(f Fields, opts gateway.Options) {
	tds := opts.ThreeDSecure
	if tds == nil {
		return
	}
	f.merge(threeDSBlock{
		ECI:     tds.ECI,
		XID:     tds.TransactionID(),
		CAVV:    tds.CAVV,
		Status:  tds.AuthenticationResponseStatus,
		Version: tds.Version,
	})
}

func scrubName(name string) string {
	return nameDisallowed.ReplaceAllString(name, "")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func randomProductID() string {
	b := make([]byte, productIDBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
