package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("BcryptHasher", func() {
	var hasher *BcryptHasher

	ginkgo.BeforeEach(func() {
		// Minimum cost keeps the suite fast.
		hasher = NewBcryptHasher(4)
	})

	ginkgo.It("verifies the secret it hashed", func() {
		digest, err := hasher.Hash("correct horse battery staple")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(digest).ToNot(gomega.ContainSubstring("correct horse"))
		gomega.Expect(hasher.Verify("correct horse battery staple", digest)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a different secret", func() {
		digest, err := hasher.Hash("password123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(hasher.Verify("password124", digest)).To(gomega.BeFalse())
	})

	ginkgo.It("rejects a malformed digest without panicking", func() {
		gomega.Expect(hasher.Verify("password123", "not-a-bcrypt-digest")).To(gomega.BeFalse())
		gomega.Expect(hasher.Verify("password123", "")).To(gomega.BeFalse())
	})

	ginkgo.It("salts each hash independently", func() {
		first, err := hasher.Hash("password123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		second, err := hasher.Hash("password123")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(first).ToNot(gomega.Equal(second))
	})
})
