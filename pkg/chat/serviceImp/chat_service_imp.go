package serviceImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sheetchat/pkg/ai"
	docrepo "sheetchat/pkg/document/repository"
	ragsvc "sheetchat/pkg/rag/service"
)

// Fixed answers for the document-selection edge cases. They are answers,
// not errors: no provider is invoked when they fire.
const (
	SelectDocumentFirst = "Please select a document first."
	DocumentNotFound    = "Document not found."
)

type Svc struct {
	docs    docrepo.DocumentRepository
	rag     ragsvc.RAGService
	factory ai.Factory
}

func New(docs docrepo.DocumentRepository, rag ragsvc.RAGService, factory ai.Factory) *Svc {
	return &Svc{docs: docs, rag: rag, factory: factory}
}

// Ask resolves the session, the provider family and the sampling
// parameters, then runs one full retrieval+generation cycle. Nothing is
// cached between asks: the same question twice runs two independent
// cycles over the same stored rows.
func (s *Svc) Ask(ctx context.Context, docID, message, model string, o *ai.Overrides) (string, error) {
	if docID == "" {
		return SelectDocumentFirst, nil
	}
	doc, err := s.docs.ByID(docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentNotFound, nil
		}
		return "", err
	}

	table, err := doc.Table()
	if err != nil {
		return "", err
	}

	// Session-stored overrides apply first, request overrides win.
	if o == nil {
		if o, err = doc.Overrides(); err != nil {
			return "", err
		}
	}
	family := ai.FamilyLocal
	if o != nil {
		family = ai.ParseFamily(o.Type)
	}
	if model == "" {
		model = ai.DefaultChatModel(family)
	}
	embedModel := doc.EmbeddingModel
	if embedModel == "" {
		embedModel = ai.DefaultEmbedModel(family)
	}

	params := ai.Resolve(family, model, o)
	client := s.factory.Client(family, embedModel, model)

	return s.rag.Answer(ctx, table, message, client, params), nil
}
