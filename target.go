package eshttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const defaultPort = 80

// target is the parsed form of [http://]host[:port][/base-path].
type target struct {
	host     string
	port     int
	basePath string
}

func parseTarget(s string) (target, error) {
	rest := s
	if scheme, after, found := strings.Cut(s, "://"); found {
		if !strings.EqualFold(scheme, "http") {
			return target{}, fmt.Errorf("%w %q", ErrUnsupportedScheme, scheme)
		}
		rest = after
	}

	hostport, path, hasPath := strings.Cut(rest, "/")
	t := target{host: hostport, port: defaultPort, basePath: "/"}
	if hasPath {
		t.basePath = "/" + path
	}

	if strings.Contains(hostport, ":") {
		host, portText, err := net.SplitHostPort(hostport)
		if err != nil {
			return target{}, fmt.Errorf("%w %q: %v", ErrInvalidTarget, s, err)
		}
		port, err := strconv.Atoi(portText)
		if err != nil || port <= 0 || port > 65535 {
			return target{}, fmt.Errorf("%w %q: bad port %q", ErrInvalidTarget, s, portText)
		}
		t.host, t.port = host, port
	}

	if t.host == "" {
		return target{}, fmt.Errorf("%w %q: missing host", ErrInvalidTarget, s)
	}
	return t, nil
}

// hostHeader is the Host header value, with the port unless it is the default one.
func (t target) hostHeader() string {
	if t.port == defaultPort {
		return t.host
	}
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

func (t target) String() string {
	return "http://" + net.JoinHostPort(t.host, strconv.Itoa(t.port)) + t.basePath
}

var errNoAddresses = errors.New("no addresses")

// resolve looks the host up once and returns ip:port, preferring IPv4.
func resolve(ctx context.Context, resolver *net.Resolver, t target) (string, error) {
	port := strconv.Itoa(t.port)
	if ip := net.ParseIP(t.host); ip != nil {
		return net.JoinHostPort(ip.String(), port), nil
	}

	addrs, err := resolver.LookupIPAddr(ctx, t.host)
	if err != nil {
		return "", &ResolveError{Host: t.host, Err: err}
	}
	if len(addrs) == 0 {
		return "", &ResolveError{Host: t.host, Err: errNoAddresses}
	}

	chosen := addrs[0].IP
	for _, a := range addrs {
		if a.IP.To4() != nil {
			chosen = a.IP
			break
		}
	}
	return net.JoinHostPort(chosen.String(), port), nil
}
