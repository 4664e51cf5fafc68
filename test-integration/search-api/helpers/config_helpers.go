package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/onsi/gomega"
)

const (
	// TestIssuer and TestAudience are the claims expected by the JWT configuration
	TestIssuer   = "https://auth.example.com"
	TestAudience = "admin-panel"
)

// Document is one record of the bleve documents file
type Document struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// CreateTestDocuments returns users, certificates and payroll runs
func CreateTestDocuments() []Document {
	return []Document{
		{Type: "users", ID: "1", Fields: map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"}},
		{Type: "users", ID: "2", Fields: map[string]any{"name": "Grace Hopper", "email": "grace@example.com"}},
		{Type: "users", ID: "3", Fields: map[string]any{"name": "Certain Person", "email": "certain@example.com"}},
		{Type: "users", ID: "4", Fields: map[string]any{"name": "Salary Clerk", "email": "clerk@example.com"}},
		{Type: "certificates", ID: "10", Fields: map[string]any{"name": "cert-api-gateway"}},
		{Type: "payroll", ID: "100", Fields: map[string]any{"name": "Salary run October"}},
	}
}

const configTemplate = `search:
  backend: bleve
  resultLimit: 10

bleve:
  documentsFile: %s

exclusions:
  "^certificate": [UserResource]
  "settings$": [UserResource, CertificateResource, PayrollResource]

roleExclusions:
  - pattern: salary
    entities: [PayrollResource]
    nonAdmins: true
  - pattern: "*@*"
    entities: [UserResource]
    roles: [support]

entities:
  - id: UserResource
    pluralLabel: Users
    source: users
    titleField: name
    urlTemplate: /admin/users/{id}
    detailFields: [email]
  - id: CertificateResource
    pluralLabel: Certificates
    source: certificates
    titleField: name
    urlTemplate: /admin/certificates/{id}
  - id: PayrollResource
    pluralLabel: Payroll
    source: payroll
    titleField: name
    urlTemplate: /admin/payroll/{id}

%s
`

// WriteDocuments writes docs as the bleve documents file in dir
func WriteDocuments(dir string, docs []Document) string {
	data, err := json.MarshalIndent(docs, "", "  ")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	path := filepath.Join(dir, "documents.json")
	gomega.Expect(os.WriteFile(path, data, 0600)).To(gomega.Succeed())
	return path
}

// WriteAnonymousConfig writes a configuration without authentication
func WriteAnonymousConfig(dir, documentsFile string) string {
	return writeConfig(dir, documentsFile, "auth:\n  mode: anonymous")
}

// WriteJWTConfig writes a configuration that requires HMAC signed bearer tokens
func WriteJWTConfig(dir, documentsFile string, secret []byte) string {
	secretFile := filepath.Join(dir, "jwt-secret")
	gomega.Expect(os.WriteFile(secretFile, secret, 0600)).To(gomega.Succeed())

	authSection := fmt.Sprintf(`auth:
  mode: jwt
  realm: admin
  jwt:
    issuer: %s
    audience: %s
    secretFile: %s`, TestIssuer, TestAudience, secretFile)
	return writeConfig(dir, documentsFile, authSection)
}

func writeConfig(dir, documentsFile, authSection string) string {
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(configTemplate, documentsFile, authSection)
	gomega.Expect(os.WriteFile(path, []byte(content), 0600)).To(gomega.Succeed())
	return path
}
