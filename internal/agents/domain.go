package agents

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

const domainProbeTimeout = 5 * time.Second

// Dialer abstracts outbound TCP probes so tests can avoid real sockets.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// HostResolver abstracts DNS resolution. *net.Resolver satisfies it.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DomainAgent checks domain reachability and simulates DNS record fixes.
// All network calls carry a bounded timeout; expiry surfaces as a failed
// check rather than a hung turn.
type DomainAgent struct {
	resolver HostResolver
	dialer   Dialer
	logger   *slog.Logger
}

// NewDomainAgent creates a DomainAgent using the default resolver and dialer.
func NewDomainAgent(logger *slog.Logger) *DomainAgent {
	return &DomainAgent{
		resolver: net.DefaultResolver,
		dialer:   &net.Dialer{Timeout: domainProbeTimeout},
		logger:   logger,
	}
}

// NewDomainAgentWith creates a DomainAgent with explicit resolver and dialer
// implementations (used by tests).
func NewDomainAgentWith(resolver HostResolver, dialer Dialer, logger *slog.Logger) *DomainAgent {
	return &DomainAgent{resolver: resolver, dialer: dialer, logger: logger}
}

func (a *DomainAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	domain := extractDomain(rawInput)

	action := params["action"]
	if action == "" {
		action = "check_status"
	}

	switch action {
	case "check_status":
		return a.checkStatus(ctx, domain)
	case "fix_dns":
		return a.fixDNS(domain, "A", "192.168.1.1")
	default:
		return failure(fmt.Sprintf("unknown domain action: %s", action)), nil
	}
}

// extractDomain returns the first input token containing a dot (trimmed of
// trailing punctuation), or example.com when none is found.
func extractDomain(rawInput string) string {
	for _, word := range strings.Fields(rawInput) {
		if strings.Contains(word, ".") && !strings.HasPrefix(word, ".") {
			return strings.Trim(word, ".,!?")
		}
	}
	return "example.com"
}

func (a *DomainAgent) checkStatus(ctx context.Context, domain string) (Outcome, error) {
	a.logger.Info("checking domain status", "domain", domain)

	actions := []string{fmt.Sprintf("Starting domain check for %s", domain)}

	resolveCtx, cancel := context.WithTimeout(ctx, domainProbeTimeout)
	defer cancel()

	checks := map[string]any{}
	var ip string
	addrs, err := a.resolver.LookupHost(resolveCtx, domain)
	if err != nil || len(addrs) == 0 {
		checks["dns_resolution"] = "failed"
		checks["status"] = "offline"
		actions = append(actions, "DNS resolution failed")
	} else {
		ip = addrs[0]
		checks["dns_resolution"] = "resolved"
		checks["ip_address"] = ip
		checks["status"] = "online"
		actions = append(actions, fmt.Sprintf("DNS resolution successful: %s", ip))
	}

	// Probe port 80 only when the name resolved.
	if ip != "" {
		dialCtx, cancelDial := context.WithTimeout(ctx, domainProbeTimeout)
		conn, err := a.dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(domain, "80"))
		cancelDial()
		if err != nil {
			checks["web_server"] = "not responding"
			actions = append(actions, "Web server is not responding")
		} else {
			conn.Close()
			checks["web_server"] = "responding"
			actions = append(actions, "Web server is responding")
		}
	}

	message := fmt.Sprintf("Domain %s status: %s", domain, checks["status"])
	if ip != "" {
		message += fmt.Sprintf(" (IP: %s)", ip)
	}

	return Outcome{
		Success:      true,
		Message:      message,
		Data:         map[string]any{"domain": domain, "checks": checks},
		ActionsTaken: actions,
	}, nil
}

// fixDNS reports the record change a registrar API call would make.
func (a *DomainAgent) fixDNS(domain, recordType, value string) (Outcome, error) {
	a.logger.Info("fixing dns", "domain", domain, "type", recordType, "value", value)

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("DNS record updated: %s %s -> %s", domain, recordType, value),
		Data: map[string]any{
			"domain":           domain,
			"record_type":      recordType,
			"new_value":        value,
			"propagation_time": "up to 24 hours",
		},
		ActionsTaken: []string{
			fmt.Sprintf("Connecting to DNS provider for %s", domain),
			fmt.Sprintf("Updating %s record to %s", recordType, value),
			"DNS propagation initiated (may take up to 24 hours)",
			"DNS fix completed successfully",
		},
	}, nil
}
