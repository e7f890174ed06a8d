package router

import (
	"strings"

	"cinepoll/internal/session"
)

// View names a renderable page.
type View string

const (
	ViewLoading       View = "loading"
	ViewLogin         View = "login"
	ViewRegister      View = "register"
	ViewForgot        View = "forgot-password"
	ViewVerifyOTP     View = "verify-otp"
	ViewResetPassword View = "reset-password"
	ViewHome          View = "home"
	ViewPollDetail    View = "poll-detail"
	ViewResults       View = "results"
	ViewProfile       View = "profile"
	ViewCreatePoll    View = "create-poll"
	ViewAdmin         View = "admin"
)

// Guard is the access rule attached to a route.
type Guard int

const (
	// GuardNone renders for anyone.
	GuardNone Guard = iota
	// GuardAnonymous bounces authenticated viewers back home.
	GuardAnonymous
	// GuardAuth redirects anonymous viewers to the login view.
	GuardAuth
	// GuardAdmin additionally requires the admin flag; non-admins go home.
	GuardAdmin
)

type route struct {
	pattern string
	view    View
	guard   Guard
}

// The routing table. Order matters only for readability; patterns do not
// overlap.
var routes = []route{
	{"/login", ViewLogin, GuardAnonymous},
	{"/register", ViewRegister, GuardAnonymous},
	{"/forgot-password", ViewForgot, GuardAnonymous},
	{"/verify-otp", ViewVerifyOTP, GuardAnonymous},
	{"/reset-password", ViewResetPassword, GuardAnonymous},
	{"/", ViewHome, GuardAuth},
	{"/polls", ViewHome, GuardAuth},
	{"/poll/:id", ViewPollDetail, GuardAuth},
	{"/results/:id", ViewResults, GuardAuth},
	{"/profile", ViewProfile, GuardAuth},
	{"/create-poll", ViewCreatePoll, GuardAdmin},
	{"/admin", ViewAdmin, GuardAdmin},
}

// Resolution is the outcome of routing a path: either a view to render or a
// path to redirect to.
type Resolution struct {
	View       View
	RedirectTo string
	Params     map[string]string
}

// Resolve maps a path to a view, applying the session guards. While the
// session store is still restoring, every guarded route suspends to the
// loading placeholder instead of redirecting on incomplete information.
func Resolve(path string, sessions *session.Store) Resolution {
	matched, params, ok := match(path)
	if !ok {
		return Resolution{RedirectTo: "/"}
	}

	if sessions.Loading() && matched.guard != GuardNone {
		return Resolution{View: ViewLoading}
	}

	viewer, authed := sessions.Current()
	switch matched.guard {
	case GuardAnonymous:
		if authed {
			return Resolution{RedirectTo: "/"}
		}
	case GuardAuth:
		if !authed {
			return Resolution{RedirectTo: "/login"}
		}
	case GuardAdmin:
		if !authed {
			return Resolution{RedirectTo: "/login"}
		}
		if !viewer.IsAdmin {
			return Resolution{RedirectTo: "/"}
		}
	}

	return Resolution{View: matched.view, Params: params}
}

func match(path string) (route, map[string]string, bool) {
	segments := split(path)
	for _, candidate := range routes {
		want := split(candidate.pattern)
		if len(want) != len(segments) {
			continue
		}
		params := map[string]string{}
		matched := true
		for i, segment := range want {
			if strings.HasPrefix(segment, ":") {
				params[segment[1:]] = segments[i]
				continue
			}
			if segment != segments[i] {
				matched = false
				break
			}
		}
		if matched {
			return candidate, params, true
		}
	}
	return route{}, nil, false
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
