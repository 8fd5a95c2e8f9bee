//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// Race detector builds pay a ~10x slowdown, the full cost makes the
// suite crawl.
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
