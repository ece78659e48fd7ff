package monnify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/gateway"
)

// bvnDateLayout is the date of birth format of the BVN match endpoint
const bvnDateLayout = "02-Jan-2006"

// minNameMatchPercentage is the lowest partial name match accepted
const minNameMatchPercentage = 75

// VerifyIdentity matches the BVN, then the NIN, against the registration details
func (c *Client) VerifyIdentity(ctx context.Context, check gateway.IdentityCheck) (bool, error) {
	if check.BVN != "" {
		matched, err := c.matchBVN(ctx, check)
		if err != nil || !matched {
			return false, err
		}
	}
	if check.NIN != "" {
		return c.matchNIN(ctx, check)
	}
	return true, nil
}

func (c *Client) matchBVN(ctx context.Context, check gateway.IdentityCheck) (bool, error) {
	var result bvnMatchResponse
	err := c.do(ctx, "bvn details match", http.MethodPost, bvnMatchPath, bvnMatchRequest{
		BVN:         check.BVN,
		Name:        check.FullName,
		DateOfBirth: check.DateOfBirth.Format(bvnDateLayout),
		MobileNo:    check.MobileNumber,
	}, &result)
	if err != nil {
		return false, err
	}

	nameMatches := result.Name.MatchStatus == matchFull ||
		(result.Name.MatchStatus == matchPartial && result.Name.MatchPercentage >= minNameMatchPercentage)
	matched := nameMatches && result.DateOfBirth == matchFull

	c.logger.Info("BVN details matched", map[string]any{
		"name_match":          result.Name.MatchStatus,
		"name_percentage":     result.Name.MatchPercentage,
		"date_of_birth_match": result.DateOfBirth,
		"mobile_match":        result.MobileNo,
		"matched":             matched,
	})
	return matched, nil
}

func (c *Client) matchNIN(ctx context.Context, check gateway.IdentityCheck) (bool, error) {
	var result ninResponse
	if err := c.do(ctx, "nin details", http.MethodPost, ninDetailsPath, ninRequest{NIN: check.NIN}, &result); err != nil {
		return false, err
	}

	name := strings.ToLower(check.FullName)
	matched := result.NIN == check.NIN &&
		(result.LastName == "" || strings.Contains(name, strings.ToLower(result.LastName)))

	c.logger.Info("NIN details checked", map[string]any{
		"matched": matched,
	})
	return matched, nil
}

// ProvisionVirtualAccount reserves an account under the request's idempotency
// key. When Monnify refuses because the reference is already reserved, the
// existing reservation is fetched and returned.
func (c *Client) ProvisionVirtualAccount(ctx context.Context, req gateway.VirtualAccountRequest) (*entity.ProvisionedAccount, error) {
	var result reservedAccountResponse
	err := c.do(ctx, "reserve account", http.MethodPost, reservedAccountPath, reserveAccountRequest{
		AccountReference:     req.IdempotencyKey,
		AccountName:          req.AccountName,
		CurrencyCode:         req.CurrencyCode,
		ContractCode:         c.config.ContractCode,
		CustomerEmail:        req.CustomerEmail,
		CustomerName:         req.CustomerName,
		BVN:                  req.BVN,
		NIN:                  req.NIN,
		GetAllAvailableBanks: c.config.GetAllAvailableBanks,
		PreferredBanks:       c.config.PreferredBanks,
	}, &result)

	var gatewayErr *errs.GatewayError
	if errors.As(err, &gatewayErr) && errors.Is(err, errs.ErrGatewayRejected) && gatewayErr.StatusCode >= 400 {
		existing, lookupErr := c.GetReservedAccount(ctx, req.IdempotencyKey)
		if lookupErr != nil {
			return nil, err
		}
		c.logger.Info("Reserved account already exists", map[string]any{
			"account_reference": req.IdempotencyKey,
		})
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return toProvisionedAccount(&result)
}

// GetReservedAccount fetches the reservation made under accountReference
func (c *Client) GetReservedAccount(ctx context.Context, accountReference string) (*entity.ProvisionedAccount, error) {
	var result reservedAccountResponse
	path := reservedAccountPath + "/" + url.PathEscape(accountReference)
	if err := c.do(ctx, "get reserved account", http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return toProvisionedAccount(&result)
}

func toProvisionedAccount(result *reservedAccountResponse) (*entity.ProvisionedAccount, error) {
	if len(result.Accounts) == 0 || result.Accounts[0].AccountNumber == "" {
		return nil, errs.NewGatewayRejectedError("reserve account", 0, "response did not contain account details")
	}
	account := result.Accounts[0]
	return &entity.ProvisionedAccount{
		AccountNumber:        account.AccountNumber,
		BankName:             account.BankName,
		BankCode:             account.BankCode,
		ReservationReference: result.ReservationReference,
	}, nil
}

var _ gateway.IdentityGateway = (*Client)(nil)
