// Command token mints an access token signed with JWT_SECRET, for operators and
// local testing.
//
//	go run ./cmd/token -employee emp-1
//	go run ./cmd/token -role admin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/config"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee id carried in the employee_id claim")
	role := flag.String("role", string(auth.RoleEmployee), "employee or admin")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to JWT_ACCESS_TTL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	r := auth.Role(*role)
	if !r.IsValid() {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}
	if r == auth.RoleEmployee && *employeeID == "" {
		fmt.Fprintln(os.Stderr, "-employee is required for employee tokens")
		os.Exit(2)
	}

	lifetime := cfg.JWT.AccessTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, lifetime).GenerateAccessToken(*employeeID, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	fmt.Println(token)
}
