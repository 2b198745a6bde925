package services_test

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}
