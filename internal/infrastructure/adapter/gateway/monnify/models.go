package monnify

import "encoding/json"

// envelope wraps every Monnify response
type envelope struct {
	RequestSuccessful bool            `json:"requestSuccessful"`
	ResponseMessage   string          `json:"responseMessage"`
	ResponseCode      string          `json:"responseCode"`
	ResponseBody      json.RawMessage `json:"responseBody"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

type bvnMatchRequest struct {
	BVN         string `json:"bvn"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	MobileNo    string `json:"mobileNo"`
}

type nameMatch struct {
	MatchStatus     string  `json:"matchStatus"`
	MatchPercentage float64 `json:"matchPercentage"`
}

type bvnMatchResponse struct {
	BVN         string    `json:"bvn"`
	Name        nameMatch `json:"name"`
	DateOfBirth string    `json:"dateOfBirth"`
	MobileNo    string    `json:"mobileNo"`
}

type ninRequest struct {
	NIN string `json:"nin"`
}

type ninResponse struct {
	NIN         string `json:"nin"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

type reserveAccountRequest struct {
	AccountReference     string   `json:"accountReference"`
	AccountName          string   `json:"accountName"`
	CurrencyCode         string   `json:"currencyCode"`
	ContractCode         string   `json:"contractCode"`
	CustomerEmail        string   `json:"customerEmail"`
	CustomerName         string   `json:"customerName"`
	BVN                  string   `json:"bvn,omitempty"`
	NIN                  string   `json:"nin,omitempty"`
	GetAllAvailableBanks bool     `json:"getAllAvailableBanks"`
	PreferredBanks       []string `json:"preferredBanks,omitempty"`
}

type reservedBankAccount struct {
	BankCode      string `json:"bankCode"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type reservedAccountResponse struct {
	AccountReference     string                `json:"accountReference"`
	AccountName          string                `json:"accountName"`
	CurrencyCode         string                `json:"currencyCode"`
	ReservationReference string                `json:"reservationReference"`
	Status               string                `json:"status"`
	CreatedOn            string                `json:"createdOn"`
	Accounts             []reservedBankAccount `json:"accounts"`
}

// Match results reported by the BVN details match endpoint
const (
	matchFull    = "FULL_MATCH"
	matchPartial = "PARTIAL_MATCH"
)
