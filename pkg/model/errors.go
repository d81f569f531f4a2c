package model

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrStorageQuotaExceeded is returned by a store when a write does not fit
	ErrStorageQuotaExceeded = goerr.New("storage quota exceeded")

	ErrAPIStatus           = goerr.New("unexpected API status")
	ErrAPIFailure          = goerr.New("API returned failure")
	ErrNotLoggedIn         = goerr.New("not logged in")
	ErrNoPayableItems      = goerr.New("no payable items selected")
	ErrPaymentFailed       = goerr.New("payment failed")
	ErrNoSeafoodIdentified = goerr.New("no seafood identified")
)
