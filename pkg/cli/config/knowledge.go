package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/merca-lab/mercabot/pkg/domain/interfaces"
	"github.com/merca-lab/mercabot/pkg/service/knowledge"
	"github.com/merca-lab/mercabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Knowledge holds CLI flags for the knowledge corpus
type Knowledge struct {
	docsDir string
}

// Flags returns CLI flags for knowledge configuration
func (k *Knowledge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "docs-dir",
			Usage:       "Directory with knowledge documents (.md and .txt)",
			Value:       "./docs",
			Sources:     cli.EnvVars("MERCABOT_DOCS_DIR"),
			Destination: &k.docsDir,
		},
	}
}

// Configure loads the corpus and builds the grounded answer service.
func (k *Knowledge) Configure(llmClient gollem.LLMClient) (interfaces.KnowledgeService, error) {
	docs, err := knowledge.LoadDir(k.docsDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load knowledge corpus", goerr.V("docs_dir", k.docsDir))
	}

	svc, err := knowledge.New(llmClient, docs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize knowledge service")
	}

	logging.Default().Info("Knowledge corpus loaded", "docs_dir", k.docsDir, "documents", len(docs))
	return svc, nil
}
