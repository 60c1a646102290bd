package authz

// Context is the per-session authorization state: active role, subject,
// organism scope, and ad-hoc granted capabilities.
//
// Exactly one Context exists per session and it is owned by the session's
// caller. It is not safe for concurrent use across sessions; construct a
// fresh Context per connection or request chain.
type Context struct {
	role          Role
	subjectID     string
	organismScope string
	dynamic       map[Capability]struct{}

	// elevated marks the sovereign override. It is unexported so it cannot
	// be set by deserializing untrusted input; only Elevated constructs it.
	elevated bool
}

// NewContext creates a session context with the given role and no scope.
func NewContext(role Role) *Context {
	return &Context{
		role:    role,
		dynamic: make(map[Capability]struct{}),
	}
}

// Elevated creates a sovereign context that passes every enforcement check.
// Reserved for in-process system actors (startup, CLI administration, the
// delivery worker); never constructed from request data.
func Elevated(subjectID string) *Context {
	ctx := NewContext(RoleSystem)
	ctx.subjectID = subjectID
	ctx.elevated = true
	return ctx
}

// Role returns the active role.
func (c *Context) Role() Role { return c.role }

// SetRole switches the active role. The elevated marker is deliberately
// untouched; demoting an elevated context requires constructing a new one.
func (c *Context) SetRole(role Role) { c.role = role }

// SubjectID returns the active subject identifier.
func (c *Context) SubjectID() string { return c.subjectID }

// SetSubjectID sets the active subject identifier.
func (c *Context) SetSubjectID(id string) { c.subjectID = id }

// OrganismScope returns the active organism scope.
func (c *Context) OrganismScope() string { return c.organismScope }

// SetOrganismScope sets the active organism scope.
func (c *Context) SetOrganismScope(id string) { c.organismScope = id }

// IsElevated reports whether this context carries the sovereign override.
func (c *Context) IsElevated() bool { return c.elevated }

// GrantDynamic adds an ad-hoc capability to the session. Granting the same
// capability twice has no additional effect.
func (c *Context) GrantDynamic(cap Capability) {
	c.dynamic[cap] = struct{}{}
}

// RevokeDynamic removes exactly the named capability from the session.
func (c *Context) RevokeDynamic(cap Capability) {
	delete(c.dynamic, cap)
}

// HasDynamic reports whether the capability was granted ad-hoc.
func (c *Context) HasDynamic(cap Capability) bool {
	_, ok := c.dynamic[cap]
	return ok
}

// DynamicCount returns the number of ad-hoc granted capabilities.
func (c *Context) DynamicCount() int {
	return len(c.dynamic)
}
