package user

import (
	"github.com/frahmantamala/iam-service/internal/auth"
)

// Reader is the slice of the auth repository this module needs: users read
// back with their full role/permission graph.
type Reader interface {
	GetUserByID(id string) (*auth.User, error)
}

type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

func (s *Service) GetByID(id string) (*auth.User, error) {
	u, err := s.reader.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}
