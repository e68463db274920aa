package session

import "strings"

// Credential pairs an identity with its sign-in secret.
type Credential struct {
	Identity Identity
	Secret   string
}

// DemoSecret is shared by the demo accounts.
const DemoSecret = "password"

// DemoCredentials returns the fixed demo accounts.
func DemoCredentials() []Credential {
	return []Credential{
		{
			Identity: Identity{
				ID:     "1",
				Name:   "Admin User",
				Email:  "admin@safedrive.com",
				Role:   RoleAdmin,
				Avatar: "https://i.pravatar.cc/150?img=68",
			},
			Secret: DemoSecret,
		},
		{
			Identity: Identity{
				ID:     "2",
				Name:   "John Driver",
				Email:  "driver@safedrive.com",
				Role:   RoleUser,
				Avatar: "https://i.pravatar.cc/150?img=33",
			},
			Secret: DemoSecret,
		},
	}
}

// match returns the identity whose email equals email ignoring case and
// whose secret equals secret exactly.
func match(credentials []Credential, email, secret string) (Identity, bool) {
	for _, c := range credentials {
		if strings.EqualFold(c.Identity.Email, email) && c.Secret == secret {
			return c.Identity, true
		}
	}
	return Identity{}, false
}
