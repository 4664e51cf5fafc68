package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/toolhive-search/test-integration/search-api/helpers"
)

var _ = Describe("Global Search", Label("search"), func() {
	var (
		tempDir       string
		documentsFile string
		serverHelper  *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		documentsFile = helpers.WriteDocuments(tempDir, helpers.CreateTestDocuments())
	})

	AfterEach(func() {
		if serverHelper != nil {
			Expect(serverHelper.StopServer()).To(Succeed())
			serverHelper = nil
		}
	})

	startServer := func(configFile string) {
		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	}

	Context("Without authentication", func() {
		BeforeEach(func() {
			startServer(helpers.WriteAnonymousConfig(tempDir, documentsFile))
		})

		It("should group results by entity type", func() {
			results := serverHelper.Search("salary", "")
			Expect(results.CategoryNames()).To(Equal([]string{"Users", "Payroll"}))
			Expect(results.Titles("Users")).To(ConsistOf("Salary Clerk"))
			Expect(results.Titles("Payroll")).To(ConsistOf("Salary run October"))
		})

		It("should skip users while typing towards certificate", func() {
			for _, query := range []string{"c", "ce", "cer", "cert"} {
				Expect(serverHelper.ResolveExclusions(query, "")).To(ConsistOf("UserResource"), query)
			}

			results := serverHelper.Search("cert", "")
			Expect(results.CategoryNames()).To(Equal([]string{"Certificates"}))
			Expect(results.Titles("Certificates")).To(ConsistOf("cert-api-gateway"))
		})

		It("should search users once the query leaves the prefix", func() {
			results := serverHelper.Search("certain", "")
			Expect(results.Titles("Users")).To(ConsistOf("Certain Person"))
		})

		It("should return no categories when every entity type is excluded", func() {
			results := serverHelper.Search("Settings", "")
			Expect(results.Categories).To(BeEmpty())
		})

		It("should list the configured rules", func() {
			resp, err := serverHelper.Get("/v1/exclusions", "")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("should reject a search without a query", func() {
			resp, err := serverHelper.Get("/v1/search", "")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Context("With JWT authentication", Label("auth"), func() {
		secret := []byte("integration-test-secret")

		BeforeEach(func() {
			startServer(helpers.WriteJWTConfig(tempDir, documentsFile, secret))
		})

		It("should require a bearer token for search", func() {
			resp, err := serverHelper.Get("/v1/search?q=ada", "")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("admin"))
		})

		It("should keep health endpoints public", func() {
			resp, err := serverHelper.Get("/health", "")
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				_ = resp.Body.Close()
			}()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("should hide payroll from non-admins", func() {
			token := helpers.SignToken(secret, "viewer@example.com", "viewer")
			results := serverHelper.Search("salary", token)
			Expect(results.CategoryNames()).To(Equal([]string{"Users"}))
		})

		It("should show payroll to admins", func() {
			token := helpers.SignToken(secret, "root@example.com", "admin")
			results := serverHelper.Search("salary", token)
			Expect(results.CategoryNames()).To(Equal([]string{"Users", "Payroll"}))
		})

		It("should apply role rules to matching roles only", func() {
			support := helpers.SignToken(secret, "helpdesk@example.com", "support")
			viewer := helpers.SignToken(secret, "viewer@example.com", "viewer")

			Expect(serverHelper.Search("grace@example.com", support).CategoryNames()).NotTo(ContainElement("Users"))
			Expect(serverHelper.Search("grace@example.com", viewer).CategoryNames()).To(ContainElement("Users"))
		})

		It("should not leak role rules into the shared exclusions", func() {
			admin := helpers.SignToken(secret, "root@example.com", "admin")
			viewer := helpers.SignToken(secret, "viewer@example.com", "viewer")

			Expect(serverHelper.ResolveExclusions("salary", viewer)).To(ConsistOf("PayrollResource"))
			Expect(serverHelper.ResolveExclusions("salary", admin)).To(BeEmpty())
		})
	})
})
