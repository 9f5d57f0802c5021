package plugins

import (
	"os"
	"os/user"
	"strings"
	"time"
)

// Params are the substitution values available to format strings in the
// configuration, such as archive_name and the remote_dir publish option.
// The syntax is {date}, {user} and {host}.
type Params struct {
	Date string
	User string
	Host string
}

// CurrentParams captures the substitution values for this run
func CurrentParams() Params {
	p := Params{Date: time.Now().Format("2006-01-02")}

	if u, err := user.Current(); err == nil {
		p.User = u.Username
	} else {
		p.User = os.Getenv("USER")
	}

	if host, err := os.Hostname(); err == nil {
		p.Host = host
	} else {
		p.Host = "localhost"
	}

	return p
}

// Expand substitutes the parameter placeholders in s
func (p Params) Expand(s string) string {
	return strings.NewReplacer(
		"{date}", p.Date,
		"{user}", p.User,
		"{host}", p.Host,
	).Replace(s)
}
