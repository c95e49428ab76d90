package app

import (
	"io"
	"log"
	"os"
	"time"

	"coref/alg/perceptron"
	"coref/nlp/coref"
	"coref/nlp/format/pairs"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func ApplyConfigOut() {
	log.Println("Configuration")
	ModelConfigOut()
	log.Println()
	log.Println("Data")
	log.Printf("Input file:\t\t%s", input)
	log.Printf("Model file:\t\t%s", modelFile)
	if outPredicted != "" {
		log.Printf("Out (predictions):\t%s", outPredicted)
	}
	if outPartition != "" {
		log.Printf("Out (clusters):\t\t%s", outPartition)
	}
	log.Println()
}

func writeFile(filename string, write func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func applyModels(ds *coref.Dataset, classes []string) (map[string]coref.Partition, error) {
	if len(classes) == 0 {
		model, err := ReadModel(modelFile, ds.Dim())
		if err != nil {
			return nil, err
		}
		return NewApplier(model).Apply(ds)
	}
	models := make(map[string]perceptron.Model, len(classes))
	for _, class := range classes {
		m, err := ReadModel(ClassModelFile(modelFile, class), ds.Dim())
		if err != nil {
			return nil, err
		}
		models[class] = m
	}
	if err := coref.Classify(ds, models, classes); err != nil {
		return nil, err
	}
	return coref.Partitions(ds, opts.PositiveClass)
}

func CorefApply(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"in", "m"}); err != nil {
		return err
	}
	if err := LoadOptions(cmd); err != nil {
		return err
	}
	if err := VerifyFiles(input, classesFile); err != nil {
		return err
	}
	if allOut {
		ApplyConfigOut()
	}
	classes, err := ReadClasses()
	if err != nil {
		return err
	}
	ds, err := readPairs(input)
	if err != nil {
		return err
	}
	startTime := time.Now()
	partitions, err := applyModels(ds, classes)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("APPLY Total Time:", time.Since(startTime))
	}
	if outPredicted != "" {
		err := writeFile(outPredicted, func(w io.Writer) error {
			return pairs.WritePredictions(w, ds.Records)
		})
		if err != nil {
			return err
		}
	}
	if outPartition != "" {
		docs := ds.Documents()
		ids := make([]string, len(docs))
		for i, doc := range docs {
			ids[i] = doc.ID
		}
		err := writeFile(outPartition, func(w io.Writer) error {
			return pairs.WritePartitions(w, ids, partitions)
		})
		if err != nil {
			return err
		}
	}
	if ds.Classes.Len() > 0 {
		report, err := coref.Evaluate(ds, opts.PositiveClass, CPUs)
		if err != nil {
			return err
		}
		report.Log("")
	}
	return nil
}

func ApplyCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       CorefApply,
		UsageLine: "apply <file options> [arguments]",
		Short:     "scores mention pairs and resolves them into clusters",
		Long: `
scores mention pairs and resolves them into clusters

	$ ./coref apply -in <pairs tsv> -m <model file> -out <predictions tsv> -clusters <clusters tsv> [options]

Pairs scoring above the threshold are linked and closed transitively per document.
If the input carries gold classes the result is also evaluated.

`,
		Flag: *flag.NewFlagSet("apply", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "in", "", "Input pairs TSV file")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model file")
	cmd.Flag.StringVar(&outPredicted, "out", "", "Out predictions TSV file (doc id1 id2 score predicted)")
	cmd.Flag.StringVar(&outPartition, "clusters", "", "Out clusters TSV file (doc mention cluster)")
	OptionFlags(&cmd.Flag, &opts)
	return cmd
}
