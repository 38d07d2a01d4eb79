package backend

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"finitefield.org/folio-web/internal/listview"
)

// fixtures backs a Client that has no base URL configured.
type fixtures struct {
	projects       []Project
	experiences    []Experience
	achievements   []Achievement
	certifications []Certification
	publications   []Publication
	tags           []Tag
	resumeList     []Resume

	mu       sync.Mutex
	messages []ContactMessage
	visits   int64
}

func fakePage[T any](f *fixtures, req listview.Request) (listview.Page[T], error) {
	var all any
	switch req.Entity {
	case EntityProjects:
		all = f.projects
	case EntityExperiences:
		all = f.experiences
	case EntityAchievements:
		all = f.achievements
	case EntityCertifications:
		all = f.certifications
	case EntityPublications:
		all = f.publications
	}
	items, ok := all.([]T)
	if !ok {
		return listview.Page[T]{}, &NetworkError{Status: http.StatusNotFound, Message: "no fixtures for " + req.Entity}
	}
	return listview.Slice(items, req, matchTag[T]), nil
}

func matchTag[T any](item T, tag string) bool {
	if tagged, ok := any(item).(interface{ HasTag(string) bool }); ok {
		return tagged.HasTag(tag)
	}
	return true
}

func (f *fixtures) project(id string) (Project, error) {
	for _, p := range f.projects {
		if string(p.ID) == id {
			return p, nil
		}
	}
	return Project{}, &NetworkError{Status: http.StatusNotFound, Message: "project " + id}
}

func (f *fixtures) experience(id string) (Experience, error) {
	for _, e := range f.experiences {
		if string(e.ID) == id {
			return e, nil
		}
	}
	return Experience{}, &NetworkError{Status: http.StatusNotFound, Message: "experience " + id}
}

func (f *fixtures) tagCatalog() []Tag {
	return append([]Tag(nil), f.tags...)
}

func (f *fixtures) resumes() []Resume {
	return append([]Resume(nil), f.resumeList...)
}

func (f *fixtures) recordMessage(msg ContactMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fixtures) visit() VisitorCount {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits++
	return VisitorCount{Message: "Visitor count updated", Count: f.visits}
}

func (f *fixtures) chat(query, sessionID string) ChatReply {
	if sessionID == "" {
		sessionID = "sess_" + strings.ToLower(ulid.Make().String())
	}
	answer := fmt.Sprintf("This is a demo assistant. You asked: %q. Browse the Projects and Experience pages for details.", query)
	return ChatReply{Answer: answer, SessionID: sessionID}
}

func newFixtures() *fixtures {
	return &fixtures{
		projects: []Project{
			{
				ID:          "1",
				Title:       "Retrieval-Augmented Portfolio Assistant",
				Description: "<p>A <strong>LangGraph</strong> agent that answers questions about my work using a vector index of project write-ups.</p><ul><li>FastAPI backend</li><li>pgvector store</li></ul>",
				Image:       "/assets/img/projects/rag.png",
				ProjectURL:  "https://example.com/rag",
				RepoURL:     "https://github.com/example/rag-assistant",
				Tags:        []string{"Python", "Generative AI", "LangGraph"},
				GalleryImages: []GalleryImage{
					{ID: "11", Image: "/assets/img/projects/rag-chat.png", Caption: "Chat view", DisplayOrder: 1},
					{ID: "12", Image: "/assets/img/projects/rag-index.png", Caption: "Indexing pipeline", DisplayOrder: 2},
				},
				DisplayOrder: 1,
				CreatedAt:    "2025-03-02T10:00:00Z",
			},
			{
				ID:           "2",
				Title:        "Crop Disease Detection",
				Description:  "<p>Computer vision model classifying leaf diseases from phone photos, deployed as a <em>TensorFlow Lite</em> app.</p>",
				Image:        "/assets/img/projects/crop.png",
				RepoURL:      "https://github.com/example/crop-disease",
				Tags:         []string{"Python", "Computer Vision", "TensorFlow"},
				DisplayOrder: 2,
				CreatedAt:    "2024-11-18T09:30:00Z",
			},
			{
				ID:           "3",
				Title:        "Bangla News Summarizer",
				Description:  "<p>Abstractive summarization of Bangla news articles with a fine-tuned transformer.</p>",
				Tags:         []string{"Python", "NLP"},
				DisplayOrder: 3,
				CreatedAt:    "2024-08-04T12:00:00Z",
			},
			{
				ID:           "4",
				Title:        "Sales Forecasting Service",
				Description:  "<p>Time-series forecasting API with Prophet and LightGBM ensembles behind a Redis cache.</p>",
				ProjectURL:   "https://example.com/forecast",
				Tags:         []string{"Python", "Time-Series", "Docker"},
				DisplayOrder: 4,
				CreatedAt:    "2024-05-21T08:00:00Z",
			},
			{
				ID:           "5",
				Title:        "Log Shipper",
				Description:  "<p>A small <code>Go</code> daemon tailing container logs into object storage.</p>",
				RepoURL:      "https://github.com/example/log-shipper",
				Tags:         []string{"Go", "Docker"},
				DisplayOrder: 5,
				CreatedAt:    "2024-02-10T15:45:00Z",
			},
			{
				ID:           "6",
				Title:        "Document Layout Parser",
				Description:  "<p>Detects tables and figures in scanned PDFs using a YOLO model.</p>",
				Tags:         []string{"Computer Vision", "PyTorch"},
				DisplayOrder: 6,
				CreatedAt:    "2023-10-01T11:00:00Z",
			},
			{
				ID:           "7",
				Title:        "Portfolio Site",
				Description:  "<p>This site: a paginated, filterable portfolio backed by a REST API.</p>",
				ProjectURL:   "https://example.com",
				Tags:         []string{"Go", "htmx"},
				DisplayOrder: 7,
				CreatedAt:    "2023-06-12T07:20:00Z",
			},
		},
		experiences: []Experience{
			{
				ID:             "1",
				CompanyName:    "Acme Analytics",
				JobTitle:       "Machine Learning Engineer",
				StartDate:      "2023-04-01",
				EndDateDisplay: "Present",
				IsCurrent:      true,
				WorkDetails:    "<ul><li>Built LLM-powered document search.</li><li>Owned the model serving stack on Kubernetes.</li></ul>",
				DisplayOrder:   1,
			},
			{
				ID:             "2",
				CompanyName:    "Northwind Labs",
				JobTitle:       "Data Scientist",
				StartDate:      "2021-07-01",
				EndDate:        "2023-03-31",
				EndDateDisplay: "Mar 2023",
				WorkDetails:    "<p>Demand forecasting and churn models for retail clients.</p>",
				Photos:         []Photo{{ID: "21", Image: "/assets/img/experience/northwind.jpg", Caption: "Team offsite"}},
				DisplayOrder:   2,
			},
			{
				ID:             "3",
				CompanyName:    "University Research Lab",
				JobTitle:       "Research Assistant",
				StartDate:      "2019-09-01",
				EndDate:        "2021-06-30",
				EndDateDisplay: "Jun 2021",
				WorkDetails:    "<p>Computer vision research on low-resource agricultural datasets.</p>",
				DisplayOrder:   3,
			},
			{
				ID:             "4",
				CompanyName:    "Freelance",
				JobTitle:       "Python Developer",
				StartDate:      "2018-01-01",
				EndDate:        "2019-08-31",
				EndDateDisplay: "Aug 2019",
				WorkDetails:    "<p>Web scraping and automation for small businesses.</p>",
				DisplayOrder:   4,
			},
		},
		achievements: []Achievement{
			{ID: "1", Title: "Kaggle Competitions Expert", Description: "Reached Expert tier with two silver medals.", Date: "2024-09-01", DisplayOrder: 1},
			{ID: "2", Title: "Hackathon Winner", Description: "First place at a national AI hackathon.", Date: "2023-12-10", DisplayOrder: 2},
			{ID: "3", Title: "Best Paper Award", Description: "Awarded at a regional computer vision workshop.", Date: "2022-06-15", DisplayOrder: 3},
			{ID: "4", Title: "Dean's List", Description: "Four consecutive semesters.", Date: "2020-01-20", DisplayOrder: 4},
			{ID: "5", Title: "Open Source Maintainer", Description: "Maintainer of a popular data-loading library.", Date: "2021-03-03", DisplayOrder: 5},
		},
		certifications: []Certification{
			{ID: "1", Name: "Deep Learning Specialization", IssuingOrganization: "DeepLearning.AI", CredentialURL: "https://example.com/cert/dl", IssueDate: "2022-02-01", DisplayOrder: 1},
			{ID: "2", Name: "TensorFlow Developer Certificate", IssuingOrganization: "Google", IssueDate: "2022-08-12", DisplayOrder: 2},
			{ID: "3", Name: "AWS Certified Machine Learning Specialty", IssuingOrganization: "Amazon Web Services", CredentialURL: "https://example.com/cert/aws", IssueDate: "2023-05-30", DisplayOrder: 3},
			{ID: "4", Name: "Certified Kubernetes Application Developer", IssuingOrganization: "CNCF", IssueDate: "2024-01-09", DisplayOrder: 4},
			{ID: "5", Name: "LangChain for LLM Application Development", IssuingOrganization: "DeepLearning.AI", IssueDate: "2024-04-22", DisplayOrder: 5},
		},
		publications: []Publication{
			{ID: "1", Title: "Lightweight Leaf Disease Classification on Edge Devices", Authors: "M. Rahman, A. Karim", Conference: "ICCIT 2022", PublicationURL: "https://example.com/pub/1", PublishedDate: "2022-12-18", DisplayOrder: 1},
			{ID: "2", Title: "Transformer Summarization for Low-Resource Languages", Authors: "M. Rahman, S. Ahmed", Conference: "ACL Workshop 2023", PublicationURL: "https://example.com/pub/2", PublishedDate: "2023-07-10", DisplayOrder: 2},
			{ID: "3", Title: "Benchmarking Tabular Forecasting Ensembles", Authors: "M. Rahman", Conference: "arXiv", PublishedDate: "2023-11-02", DisplayOrder: 3},
			{ID: "4", Title: "Layout Detection in Historical Documents", Authors: "A. Karim, M. Rahman", Conference: "ICDAR 2021", PublishedDate: "2021-09-05", DisplayOrder: 4},
		},
		tags: []Tag{
			{ID: "1", Name: "Python"},
			{ID: "2", Name: "Go"},
			{ID: "3", Name: "Computer Vision"},
			{ID: "4", Name: "NLP"},
			{ID: "5", Name: "Generative AI"},
			{ID: "6", Name: "Docker"},
		},
		resumeList: []Resume{
			{ID: "1", Title: "Resume 2024", PDFFile: "/assets/resume/resume-2024.pdf", UploadedAt: "2024-01-15T09:00:00Z"},
			{ID: "2", Title: "Resume 2025", PDFFile: "/assets/resume/resume-2025.pdf", UploadedAt: "2025-02-01T09:00:00Z"},
		},
	}
}
