package security

// In-memory credential registry for token issuance (replace with the user
// service once it exposes an auth endpoint).
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"orders.read","orders.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"storefront-web": {ID: "storefront-web", Secret: "storefront-web-secret", Perms: []string{"orders.read", "orders.write", "cart.write"}, Enabled: true},
	"svc-support":    {ID: "svc-support", Secret: "support-secret", Perms: []string{"orders.read"}, Enabled: true},
}
