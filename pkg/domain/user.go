package domain

// UserID uniquely identifies a durable user. The zero value marks a transient
// aggregate that has not been persisted yet.
type UserID int64

// User is the aggregate root of the identity domain. Its value objects are
// validated atomically at construction, so a User can never carry an invalid
// field. All state transitions are copy-on-write: the WithNew* methods return
// a new User and leave the receiver untouched.
type User struct {
	id       UserID
	username Username
	password Password
	email    Email
}

// NewUser constructs a transient User from raw registration input, validating
// all three value objects and hashing the password. The first validation
// failure is returned as-is; no partially constructed User is observable.
func NewUser(username string, plaintextPassword string, email string) (User, error) {
	name, err := NewUsername(username)
	if err != nil {
		return User{}, err
	}

	password, err := NewPassword(plaintextPassword)
	if err != nil {
		return User{}, err
	}

	address, err := NewEmail(email)
	if err != nil {
		return User{}, err
	}

	return User{username: name, password: password, email: address}, nil
}

// RestoreUser rebuilds a durable User from already validated value objects,
// typically when loading a snapshot from storage. No validation re-runs.
func RestoreUser(id UserID, username Username, password Password, email Email) User {
	return User{id: id, username: username, password: password, email: email}
}

// WithID returns a copy of the user carrying the given durable identity.
// Storage assigns ids on insert; nothing else should.
func (u User) WithID(id UserID) User {
	u.id = id

	return u
}

// WithNewUsername validates raw and returns a new User with the username
// replaced, sharing the remaining fields and the same id.
func (u User) WithNewUsername(raw string) (User, error) {
	name, err := NewUsername(raw)
	if err != nil {
		return User{}, err
	}
	u.username = name

	return u, nil
}

// WithNewPassword validates and hashes plaintext and returns a new User with
// the password replaced.
func (u User) WithNewPassword(plaintext string) (User, error) {
	password, err := NewPassword(plaintext)
	if err != nil {
		return User{}, err
	}
	u.password = password

	return u, nil
}

// WithNewEmail validates raw and returns a new User with the email replaced.
func (u User) WithNewEmail(raw string) (User, error) {
	address, err := NewEmail(raw)
	if err != nil {
		return User{}, err
	}
	u.email = address

	return u, nil
}

// IsPasswordValid reports whether candidate matches the stored password
// digest. An empty candidate reports false.
func (u User) IsPasswordValid(candidate string) bool {
	return u.password.Matches(candidate)
}

// IsNew reports whether the user has not been persisted yet.
func (u User) IsNew() bool { return u.id == 0 }

// ID returns the durable identity, or zero for a transient user.
func (u User) ID() UserID { return u.id }

// Username returns the username value object.
func (u User) Username() Username { return u.username }

// Password returns the password value object.
func (u User) Password() Password { return u.password }

// Email returns the email value object.
func (u User) Email() Email { return u.email }

// Equal implements the identity-vs-value equality invariant: when both sides
// carry a durable id, equality is decided by id alone; when either side is
// transient, equality falls back to comparing all value objects. The two
// branches are deliberately explicit because the rule is easy to regress.
func (u User) Equal(other User) bool {
	if u.id != 0 && other.id != 0 {
		return u.id == other.id
	}

	return u.username == other.username &&
		u.password == other.password &&
		u.email == other.email
}
