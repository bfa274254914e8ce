package auth

import "sync"

// Credentials maps login ids to plaintext passwords. It lives in memory
// only: accounts registered at runtime cannot log in after a restart.
type Credentials struct {
	mu        sync.RWMutex
	passwords map[string]string
}

// NewCredentials returns a table holding the seed accounts.
func NewCredentials() *Credentials {
	return &Credentials{passwords: map[string]string{
		"kkkk1111": "kkkk1111",
		"kkkk2222": "kkkk2222",
	}}
}

// Verify reports whether password matches the login id.
func (c *Credentials) Verify(loginID, password string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	want, ok := c.passwords[loginID]
	return ok && want == password
}

// Has reports whether the login id is known.
func (c *Credentials) Has(loginID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.passwords[loginID]
	return ok
}

// Add inserts a credential. It refuses to overwrite an existing login id.
func (c *Credentials) Add(loginID, password string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.passwords[loginID]; ok {
		return false
	}
	c.passwords[loginID] = password
	return true
}

// Remove deletes a credential.
func (c *Credentials) Remove(loginID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.passwords, loginID)
}

// Rename moves a credential to a new login id. It refuses when the old id is
// unknown or the new one is taken.
func (c *Credentials) Rename(oldID, newID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pw, ok := c.passwords[oldID]
	if !ok {
		return false
	}
	if oldID == newID {
		return true
	}
	if _, taken := c.passwords[newID]; taken {
		return false
	}
	delete(c.passwords, oldID)
	c.passwords[newID] = pw
	return true
}
