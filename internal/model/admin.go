package model

import "time"

// RoleAdmin is the only role issued in access tokens.
const RoleAdmin = "ADMIN"

// Admin is an operator account allowed to manage facilities.  Accounts
// are provisioned outside the service; only the bcrypt hash of the
// password is stored.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type Admin struct {
    ID           uint64    // admins.id
    Username     string    // admins.username
    PasswordHash string    // admins.password_hash
    CreatedAt    time.Time // admins.created_at
}
