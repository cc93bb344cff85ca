package permission_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/iam-service/internal"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
	"github.com/frahmantamala/iam-service/internal/permission"
)

func TestPermission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Module Suite")
}

type mockRepository struct {
	permissions map[string]*iamDatamodel.Permission
}

func (m *mockRepository) ExistsByName(name string) (bool, error) {
	_, ok := m.permissions[name]
	return ok, nil
}

func (m *mockRepository) Create(p *iamDatamodel.Permission) error {
	p.ID = "perm-" + p.Name
	m.permissions[p.Name] = p
	return nil
}

func (m *mockRepository) FindAll() ([]iamDatamodel.Permission, error) {
	out := make([]iamDatamodel.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		out = append(out, *p)
	}
	return out, nil
}

var _ = Describe("PermissionService", func() {
	var (
		service *permission.Service
		repo    *mockRepository
	)

	BeforeEach(func() {
		repo = &mockRepository{permissions: map[string]*iamDatamodel.Permission{}}
		service = permission.NewService(repo)
	})

	It("creates a permission", func() {
		resp, err := service.Create(permission.CreatePermissionDTO{
			Name:        "dept:read",
			Description: "Read departments",
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(resp.ID).ToNot(BeEmpty())
		Expect(resp.Name).To(Equal("dept:read"))
	})

	It("rejects a duplicate name with Conflict", func() {
		_, err := service.Create(permission.CreatePermissionDTO{Name: "dept:read"})
		Expect(err).ToNot(HaveOccurred())

		_, err = service.Create(permission.CreatePermissionDTO{Name: "dept:read"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePermissionExists))
	})

	It("rejects a blank name", func() {
		_, err := service.Create(permission.CreatePermissionDTO{Name: ""})
		Expect(err).To(HaveOccurred())
	})

	It("lists all permissions", func() {
		_, err := service.Create(permission.CreatePermissionDTO{Name: "dept:read"})
		Expect(err).ToNot(HaveOccurred())
		_, err = service.Create(permission.CreatePermissionDTO{Name: "dept:write"})
		Expect(err).ToNot(HaveOccurred())

		permissions, err := service.List()
		Expect(err).ToNot(HaveOccurred())
		Expect(permissions).To(HaveLen(2))
	})
})
