package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor: вызывающий пользователь, как его видит слой авторизации.
type Actor struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Anonymous: актор без токена (публичные маршруты).
var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool { return a.ID != "" }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManage: единый предикат "владелец или админ".
func (a Actor) CanManage(ownerID string) bool {
	if !a.IsAuthenticated() {
		return false
	}
	return a.IsAdmin() || a.ID == ownerID
}
