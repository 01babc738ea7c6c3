package models

// MpesaTokenResponse is the provider's OAuth token endpoint response
type MpesaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// STKPushRequest is the payload submitted to the provider's STK push endpoint.
// Field names follow the Daraja wire format exactly.
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the provider's synchronous response to an accepted
// STK push request
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// MpesaErrorResponse is the provider's error payload on a rejected request.
// It is surfaced verbatim to the caller.
type MpesaErrorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// STKCallbackEnvelope is the asynchronous webhook payload the provider
// delivers to report the outcome of a previously initiated STK push
type STKCallbackEnvelope struct {
	Body struct {
		STKCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback carries the business outcome of an STK push. ResultCode 0
// means the customer completed the payment; any other code is a failure.
type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

// CallbackMetadata is present on successful callbacks and carries the
// receipt number, amount and payer phone as loosely typed items
type CallbackMetadata struct {
	Item []CallbackMetadataItem `json:"Item"`
}

// CallbackMetadataItem is a single name/value pair in the callback metadata
type CallbackMetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// ReceiptNumber extracts the MpesaReceiptNumber item, if present
func (m *CallbackMetadata) ReceiptNumber() string {
	if m == nil {
		return ""
	}
	for _, item := range m.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// InitiatePaymentRequest is the client-facing request to start an STK push
type InitiatePaymentRequest struct {
	PhoneNumber    string `json:"phone_number"`
	Amount         int    `json:"amount"`
	OrderReference string `json:"order_reference"`
}
