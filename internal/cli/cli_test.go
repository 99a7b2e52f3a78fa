package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/threagile/editor-e2e/internal/cli"
	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/internal/store/migrations"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

var _ = Describe("GetExitCode", func() {
	It("should map errors to exit codes", func() {
		Expect(cli.GetExitCode(nil)).To(Equal(cli.ExitSuccess))
		Expect(cli.GetExitCode(errors.New("boom"))).To(Equal(cli.ExitFailure))
		Expect(cli.GetExitCode(cli.NewExitError(cli.ExitCommandError, "bad"))).To(Equal(cli.ExitCommandError))
	})

	It("should see through wrapping", func() {
		inner := cli.WrapExitError(cli.ExitCommandError, "failed to open store", errors.New("locked"))
		err := errors.Join(errors.New("context"), inner)

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitCommandError))
		Expect(inner.Error()).To(Equal("failed to open store: locked"))
	})
})

var _ = Describe("diff command", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	// Given two models that only differ in mapping and sequence order
	// When we diff them
	// Then they should be reported equivalent
	It("should accept a restored model", func() {
		a := writeFile(dir, "a.json", `{"title":"m","tags":["x","y"],"assets":{"a":1}}`)
		b := writeFile(dir, "b.json", `{"assets":{"a":1},"tags":["y","x"],"title":"m"}`)

		out, err := execute("diff", a, b)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("models are equivalent\n"))
	})

	It("should fail with every differing path", func() {
		a := writeFile(dir, "a.json", `{"title":"m","assets":{"a":1}}`)
		b := writeFile(dir, "b.json", `{"title":"n","assets":{"a":1,"b":2}}`)

		out, err := execute("diff", a, b)

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitFailure))
		Expect(out).To(ContainSubstring("title"))
		Expect(out).To(ContainSubstring("assets.b"))
	})

	It("should honor strict order", func() {
		a := writeFile(dir, "a.json", `{"tags":["x","y"]}`)
		b := writeFile(dir, "b.json", `{"tags":["y","x"]}`)

		_, err := execute("diff", "--strict-order", a, b)

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitFailure))
	})

	It("should leave excluded paths out", func() {
		a := writeFile(dir, "a.json", `{"assets":{"a":{"tags":["x"]},"b":{"tags":[]}}}`)
		b := writeFile(dir, "b.json", `{"assets":{"a":{"tags":[]},"b":{"tags":["y"]}}}`)

		_, err := execute("diff", "--exclude", "assets[*].tags", a, b)

		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a command error when a file is missing", func() {
		a := writeFile(dir, "a.json", `{}`)

		_, err := execute("diff", a, filepath.Join(dir, "missing.json"))

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitCommandError))
	})
})

var _ = Describe("config command", func() {
	It("should print the merged configuration with sensitive values masked", func() {
		out, err := execute("config", "--workers", "3", "--browser-remote-url", "ws://127.0.0.1:9222/devtools/browser/x")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Workers: 3"))
		Expect(out).To(ContainSubstring("(sensitive)"))
		Expect(out).NotTo(ContainSubstring("9222"))
	})

	It("should reject an invalid configuration", func() {
		_, err := execute("config", "--browser-driver", "selenium")

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitCommandError))
		Expect(err).To(MatchError(ContainSubstring("browser driver must be rod or chromedp")))
	})
})

var _ = Describe("report command", func() {
	var dbPath string

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "journal.duckdb")
	})

	seed := func() {
		ctx := context.Background()
		db, err := store.NewDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()
		Expect(migrations.Run(ctx, db)).To(Succeed())
		s := store.NewStore(db)

		started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		run := &models.Run{
			ID: "run-1", Status: models.RunStatusRunning, Groups: []string{"technical-asset"},
			Driver: "rod", EditorURL: "http://0.0.0.0:8000/indexTests.html", StartedAt: started,
		}
		Expect(s.Runs().Create(ctx, run)).To(Succeed())
		Expect(s.Steps().Insert(ctx, &models.Step{
			RunID: "run-1", Group: "technical-asset", Name: "toggle out_of_scope", Kind: "toggle",
			Outcome: models.StepOutcomeFailed, Error: "expected out_of_scope to be true", StartedAt: started,
		})).To(Succeed())

		finished := started.Add(time.Minute)
		run.FinishedAt = &finished
		run.Status = models.RunStatusFailed
		run.Failed = 1
		Expect(s.Runs().Finish(ctx, run)).To(Succeed())
	}

	It("should say when the journal is empty", func() {
		out, err := execute("report", "--db-path", dbPath)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("no runs\n"))
	})

	It("should list journaled runs", func() {
		seed()

		out, err := execute("report", "--db-path", dbPath)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("run-1"))
		Expect(out).To(ContainSubstring("failed"))
	})

	It("should detail one run and write a workbook", func() {
		seed()
		xlsx := filepath.Join(GinkgoT().TempDir(), "run.xlsx")

		out, err := execute("report", "run-1", "--db-path", dbPath, "--xlsx", xlsx)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("FAIL toggle out_of_scope"))
		Expect(out).To(ContainSubstring("expected out_of_scope to be true"))

		f, err := excelize.OpenFile(xlsx)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows("Steps")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
	})

	It("should be a command error for an unknown run", func() {
		_, err := execute("report", "missing", "--db-path", dbPath)

		Expect(cli.GetExitCode(err)).To(Equal(cli.ExitCommandError))
		Expect(err).To(MatchError(ContainSubstring("run missing not found")))
	})
})
