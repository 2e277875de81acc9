// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package client

// # Route Guard

// Decision is the guard's verdict for rendering a protected screen.
type Decision string

const (
	// DecisionLoading means the session is still rehydrating; render a
	// placeholder, not the protected content.
	DecisionLoading Decision = "loading"
	// DecisionRedirectLogin means authentication is required and absent.
	DecisionRedirectLogin Decision = "redirect_login"
	// DecisionDenied means the user is authenticated but the role does
	// not satisfy the policy; show a permission-denied view, no redirect.
	DecisionDenied Decision = "denied"
	// DecisionGranted means the protected content may render.
	DecisionGranted Decision = "granted"
)

// GuardPolicy declares what a screen requires.
type GuardPolicy struct {
	// RequireAuth demands an authenticated session.
	RequireAuth bool

	// Roles, when non-empty, restricts access to these roles. Implies
	// RequireAuth.
	Roles []string
}

// Evaluate is a pure decision over the current session state. It never
// performs a network call; it trusts the already-initialized store.
func Evaluate(session *SessionStore, policy GuardPolicy) Decision {
	if session.State() == StateRehydrating {
		return DecisionLoading
	}

	needsAuth := policy.RequireAuth || len(policy.Roles) > 0
	if !needsAuth {
		return DecisionGranted
	}

	if !session.IsAuthenticated() {
		return DecisionRedirectLogin
	}

	if len(policy.Roles) == 0 {
		return DecisionGranted
	}

	user := session.CurrentUser()
	if user == nil {
		return DecisionRedirectLogin
	}

	for _, role := range policy.Roles {
		if user.Role == role {
			return DecisionGranted
		}
	}
	return DecisionDenied
}
