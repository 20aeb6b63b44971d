package medimind_test

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medimind/mindline/pkg/medimind"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMedimind(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Medimind Suite")
}

var _ = Describe("Client", func() {
	var (
		client *medimind.Client
		server *httptest.Server
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/ping":
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "ok"}`))

			case r.URL.Path == "/files" && r.Method == http.MethodGet:
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"files": [
						{"name": "discharge_summary.pdf", "size": 48128, "size_kb": 47.0},
						{"name": "labs_2026_03.txt", "size": 2048, "size_kb": 2.0}
					],
					"count": 2
				}`))

			case r.URL.Path == "/upload" && r.Method == http.MethodPost:
				if err := r.ParseMultipartForm(32 << 20); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				names := []string{}
				for _, fh := range r.MultipartForm.File["files"] {
					names = append(names, fh.Filename)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status": "uploaded",
					"files":  names,
					"count":  len(names),
				})

			case strings.HasPrefix(r.URL.Path, "/files/") && r.Method == http.MethodDelete:
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "deleted", "file": "discharge_summary.pdf"}`))

			case r.URL.Path == "/ask" && r.Method == http.MethodPost:
				var req map[string]string
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req["question"]).NotTo(BeEmpty())

				w.Header().Set("Content-Type", "text/event-stream")
				w.Write([]byte("data: {\"token\":\"Result: \"}\n"))
				w.Write([]byte("data: {\"token\":\"normal.\"}\n"))
				w.Write([]byte("data: [DONE]\n"))

			case r.URL.Path == "/patient-data":
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"name": "Jane Doe",
					"age": "54",
					"date_of_birth": null,
					"gender": null,
					"patient_id": "MRN-00231",
					"address": null,
					"phone": null,
					"email": null,
					"vital_signs": {"bp": "128/82", "hr": "71"}
				}`))

			case r.URL.Path == "/clinical-data":
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"events": [{"date": "2026-03-14", "description": "Admitted for chest pain", "source": "discharge_summary.pdf"}],
					"labs": [{"test_name": "Troponin I", "value": "0.9", "units": "ng/mL", "abnormal": true}],
					"medications": [{"name": "Aspirin", "dose": "81mg"}],
					"red_flags": ["Elevated troponin"],
					"summary": {"total_events": 1, "total_labs": 1, "abnormal_labs": 1, "total_medications": 1, "total_red_flags": 1}
				}`))

			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))

		client = medimind.NewClient(server.URL, 5*time.Second)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Ping", func() {
		It("should succeed against a healthy backend", func() {
			Expect(client.Ping(context.Background())).To(Succeed())
		})

		It("should fail when the backend is unreachable", func() {
			down := medimind.NewClient("http://127.0.0.1:1", time.Second)
			Expect(down.Ping(context.Background())).To(HaveOccurred())
		})
	})

	Describe("Files", func() {
		It("should list the uploaded documents", func() {
			files, err := client.Files(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(files.Count).To(Equal(2))
			Expect(files.Files).To(HaveLen(2))
			Expect(files.Files[0].Name).To(Equal("discharge_summary.pdf"))
			Expect(files.Files[0].SizeKB).To(BeNumerically("~", 47.0, 0.01))
		})
	})

	Describe("Upload", func() {
		It("should submit multiple documents in one multipart request", func() {
			resp, err := client.Upload(context.Background(),
				medimind.Document{Name: "a.txt", Content: strings.NewReader("alpha")},
				medimind.Document{Name: "b.txt", Content: strings.NewReader("beta")},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("uploaded"))
			Expect(resp.Count).To(Equal(2))
			Expect(resp.Files).To(Equal([]string{"a.txt", "b.txt"}))
		})

		It("should reject an empty document set locally", func() {
			_, err := client.Upload(context.Background())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should remove a document by name", func() {
			resp, err := client.Delete(context.Background(), "discharge_summary.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("deleted"))
			Expect(resp.File).To(Equal("discharge_summary.pdf"))
		})
	})

	Describe("Ask", func() {
		It("should return the open event-stream body", func() {
			body, err := client.Ask(context.Background(), "What do the labs show?")
			Expect(err).NotTo(HaveOccurred())
			defer body.Close()

			raw, err := io.ReadAll(body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(ContainSubstring(`data: {"token":"Result: "}`))
			Expect(string(raw)).To(ContainSubstring("data: [DONE]"))
		})

		It("should surface the error body on a non-200 response", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("no documents loaded"))
			}))
			defer failing.Close()

			_, err := medimind.NewClient(failing.URL, time.Second).Ask(context.Background(), "q")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("503"))
			Expect(err.Error()).To(ContainSubstring("no documents loaded"))
		})
	})

	Describe("PatientData", func() {
		It("should distinguish absent fields from present ones", func() {
			data, err := client.PatientData(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Name).NotTo(BeNil())
			Expect(*data.Name).To(Equal("Jane Doe"))
			Expect(data.DateOfBirth).To(BeNil())
			Expect(data.VitalSigns).To(HaveKeyWithValue("bp", "128/82"))
		})
	})

	Describe("ClinicalData", func() {
		It("should decode the structured clinical snapshot", func() {
			data, err := client.ClinicalData(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Labs).To(HaveLen(1))
			Expect(data.Labs[0].Abnormal).To(BeTrue())
			Expect(data.RedFlags).To(ContainElement("Elevated troponin"))
			Expect(data.Summary.TotalLabs).To(Equal(1))
		})
	})
})

// Multipart shape matters to the backend: every document goes under the
// same `files` field.
var _ = Describe("Upload wire format", func() {
	It("should place all documents under the files field", func() {
		var captured *multipart.Form
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.ParseMultipartForm(32 << 20)).To(Succeed())
			captured = r.MultipartForm
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status": "uploaded", "files": [], "count": 0}`))
		}))
		defer server.Close()

		client := medimind.NewClient(server.URL, time.Second)
		_, err := client.Upload(context.Background(),
			medimind.Document{Name: "one.txt", Content: strings.NewReader("1")},
			medimind.Document{Name: "two.txt", Content: strings.NewReader("2")},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(captured.File["files"]).To(HaveLen(2))
	})
})
