// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
)

// # Bearer Challenges

// RFC 6750 error codes carried in WWW-Authenticate challenges.
const (
	ChallengeInvalidToken      = "invalid_token"
	ChallengeInsufficientScope = "insufficient_scope"
)

// BearerChallenge renders a WWW-Authenticate value for the bearer scheme.
//
// The scope parameter lists the scopes the rejected operation required; it is
// omitted when required is empty. errorCode is optional.
func BearerChallenge(required []Scope, errorCode string) string {
	params := make([]string, 0, 2)
	if len(required) > 0 {
		params = append(params, fmt.Sprintf("scope=%q", JoinScopes(required)))
	}
	if errorCode != "" {
		params = append(params, fmt.Sprintf("error=%q", errorCode))
	}

	if len(params) == 0 {
		return "Bearer"
	}
	return "Bearer " + strings.Join(params, ", ")
}
