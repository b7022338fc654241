package user

import "time"

// User is a console account. Regular admins are scoped to one gym; the
// superadmin has no gym (GymID nil) and can manage all of them.
type User struct {
	ID           int       `db:"id" json:"id"`
	GymID        *int      `db:"gym_id" json:"gym_id,omitempty"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) GymIDOrZero() int {
	if u.GymID == nil {
		return 0
	}
	return *u.GymID
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	GymID    int    `json:"gym_id" binding:"required,gt=0"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
