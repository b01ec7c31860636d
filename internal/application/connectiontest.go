package application

import "strings"

// TestResult is the outcome of a local connection test. The test only
// checks that credentials exist for the (client, service) pair; it never
// contacts the external service.
type TestResult int

const (
	// TestUnknownClient means no profile matches the client name.
	TestUnknownClient TestResult = iota
	// TestServiceNotConfigured means the client exists but holds no
	// credential for the requested service.
	TestServiceNotConfigured
	// TestReady means a credential is present for the pair.
	TestReady
)

func (r TestResult) String() string {
	switch r {
	case TestUnknownClient:
		return "unknown client"
	case TestServiceNotConfigured:
		return "service not configured"
	case TestReady:
		return "ready"
	default:
		return "invalid result"
	}
}

// ConnectionTester answers "could this client talk to this service?" from
// the store's snapshot alone.
type ConnectionTester struct {
	store *CredentialStore
}

// NewConnectionTester creates a tester over store.
func NewConnectionTester(store *CredentialStore) *ConnectionTester {
	return &ConnectionTester{store: store}
}

// Test reports whether a credential exists for the client and service key.
func (t *ConnectionTester) Test(clientName, service string) TestResult {
	profile, ok := t.store.FindClient(strings.TrimSpace(clientName))
	if !ok {
		return TestUnknownClient
	}
	if _, ok := profile.Services[service]; !ok {
		return TestServiceNotConfigured
	}
	return TestReady
}
