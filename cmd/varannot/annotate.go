package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/variomics/varannot/internal/annotate"
	"github.com/variomics/varannot/internal/output"
	"github.com/variomics/varannot/internal/seq"
	"github.com/variomics/varannot/internal/store"
	"github.com/variomics/varannot/internal/vfeat"
)

func newAnnotateCmd(verbose *bool) *cobra.Command {
	var (
		fastaPath   string
		transcripts string
		outputFile  string
		storePath   string
	)

	cmd := &cobra.Command{
		Use:   "annotate <input-file>",
		Short: "Annotate variants in a variant feature file",
		Long: `Annotate variants with QC failure codes, genomic HGVS notation, and
resolved consequence types. Input is a tab-delimited variant feature file
(name, region, start, end, strand, allele_string, source); use '-' for stdin.`,
		Example: `  varannot annotate --fasta grch38.fa variants.tsv
  varannot annotate --fasta grch38.fa.gz -o annotated.tsv variants.tsv.gz
  varannot annotate --fasta grch38.fa --transcripts transcripts.yaml variants.tsv
  varannot annotate --fasta grch38.fa --store results.duckdb variants.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(args[0], fastaPath, transcripts, outputFile, storePath, *verbose)
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Reference FASTA file (default: reference.fasta config key)")
	cmd.Flags().StringVar(&transcripts, "transcripts", "", "Transcript definitions YAML for cDNA notation and consequences")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&storePath, "store", "", "Also persist annotations to a DuckDB file (default: store.path config key)")

	return cmd
}

func runAnnotate(inputPath, fastaPath, transcripts, outputFile, storePath string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if fastaPath == "" {
		fastaPath = viper.GetString("reference.fasta")
	}
	if fastaPath == "" {
		return fmt.Errorf("no reference FASTA: pass --fasta or set reference.fasta in ~/.varannot.yaml")
	}
	if storePath == "" {
		storePath = viper.GetString("store.path")
	}

	provider := seq.NewFastaProvider(fastaPath)
	if err := provider.Load(); err != nil {
		return fmt.Errorf("load reference FASTA: %w", err)
	}
	logger.Info("loaded reference",
		zap.String("fasta", fastaPath),
		zap.Int("regions", provider.RegionCount()))

	var lookup annotate.ContextLookup
	if transcripts != "" {
		set, err := annotate.LoadContexts(transcripts)
		if err != nil {
			return fmt.Errorf("load transcripts: %w", err)
		}
		logger.Info("loaded transcripts",
			zap.String("file", transcripts),
			zap.Int("count", set.Count()))
		lookup = set
	}

	parser, err := vfeat.NewParser(inputPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	ann := annotate.NewAnnotator(provider)
	ann.SetLogger(logger)
	ann.SetWorkers(viper.GetInt("workers"))

	var writer annotate.AnnotationWriter = output.NewTabWriter(out)
	if storePath != "" {
		st, err := store.Open(storePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		writer = newStoringWriter(writer, st)
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return ann.AnnotateAll(parser, lookup, writer)
}

// storingWriter tees annotations into a DuckDB store alongside the primary
// writer, flushing the batch on Flush.
type storingWriter struct {
	inner annotate.AnnotationWriter
	store *store.Store
	batch []*annotate.Annotation
}

func newStoringWriter(inner annotate.AnnotationWriter, st *store.Store) *storingWriter {
	return &storingWriter{inner: inner, store: st}
}

func (w *storingWriter) WriteHeader() error {
	return w.inner.WriteHeader()
}

func (w *storingWriter) Write(ann *annotate.Annotation) error {
	w.batch = append(w.batch, ann)
	return w.inner.Write(ann)
}

func (w *storingWriter) Flush() error {
	if err := w.store.WriteAnnotations(w.batch); err != nil {
		return fmt.Errorf("persist annotations: %w", err)
	}
	w.batch = nil
	return w.inner.Flush()
}
