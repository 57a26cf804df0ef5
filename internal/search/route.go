package search

import "net/url"

// Route is a location inside the app: a path plus its query string.
type Route struct {
	Path  string
	Query url.Values
}

// ParseRoute reads a "/path?query" location.
func ParseRoute(location string) (Route, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Route{}, err
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return Route{Path: path, Query: u.Query()}, nil
}

func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Equal compares path and encoded query.
func (r Route) Equal(other Route) bool {
	return r.Path == other.Path && r.Query.Encode() == other.Query.Encode()
}

func (r Route) clone() Route {
	q := make(url.Values, len(r.Query))
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	return Route{Path: r.Path, Query: q}
}
