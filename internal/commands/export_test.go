package commands

import "taskpad/internal/backend/googletasks"

// SetFlow replaces the OAuth loopback flow used by login.
func (c *LoginCmd) SetFlow(flow *googletasks.Loopback) {
	c.flow = flow
}
