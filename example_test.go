package scrambleAuth_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/userstore/memstore"
)

// ExampleNew builds an engine on the in-memory store and cache.
func ExampleNew() {
	cfg := scrambleAuth.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("example-access-secret-0123456789")
	cfg.JWT.RefreshSecret = []byte("example-refresh-secret-0123456789")
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour

	engine, err := scrambleAuth.New().
		WithConfig(cfg).
		WithCredentialStore(memstore.New()).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer engine.Close()

	fmt.Println(engine.SecurityReport().SigningAlgorithm)
	// Output: HS256
}

// ExampleEngine_Signup shows how callers classify engine errors.
func ExampleEngine_Signup() {
	cfg := scrambleAuth.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("example-access-secret-0123456789")
	cfg.JWT.RefreshSecret = []byte("example-refresh-secret-0123456789")
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour

	engine, err := scrambleAuth.New().WithConfig(cfg).WithCredentialStore(memstore.New()).Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer engine.Close()

	_, err = engine.Signup(context.Background(), scrambleAuth.SignupRequest{
		Email:    "a@b.com",
		Password: "short",
		Name:     "A",
		Gender:   scrambleAuth.GenderFemale,
	})
	if errors.Is(err, scrambleAuth.ErrInvalidInput) {
		fmt.Println(scrambleAuth.AsError(err).Fields["password"] != "")
	}
	// Output: true
}
