package app

import (
	"log"
	"os"

	"coref/nlp/coref"
	"coref/nlp/format/pairs"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func CorevalConfigOut() {
	log.Println("Data")
	log.Printf("Predictions file:\t%s", input)
	log.Printf("Gold file:\t\t%s", inputGold)
	log.Printf("Positive class:\t\t%s", opts.PositiveClass)
	log.Println()
}

func CorefEval(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"p", "g"}); err != nil {
		return err
	}
	if err := VerifyFiles(input, inputGold); err != nil {
		return err
	}
	if allOut {
		CorevalConfigOut()
	}
	gold, err := readPairs(inputGold)
	if err != nil {
		return err
	}
	file, err := os.Open(input)
	if err != nil {
		return err
	}
	predictions, err := pairs.ReadPredictions(file)
	file.Close()
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(predictions), "predictions from", input)
	}
	if err := pairs.Merge(gold, predictions); err != nil {
		return err
	}
	report, err := coref.Evaluate(gold, opts.PositiveClass, CPUs)
	if err != nil {
		return err
	}
	report.Log("")
	return nil
}

func CorevalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       CorefEval,
		UsageLine: "coreval <file options> [arguments]",
		Short:     "scores pairwise predictions against gold pairs",
		Long: `
scores pairwise predictions against gold pairs (pairwise, B-cubed and MUC)

	$ ./coref coreval -p <predictions tsv> -g <gold pairs tsv> [options]

`,
		Flag: *flag.NewFlagSet("coreval", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "p", "", "Predictions TSV file")
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold pairs TSV file")
	cmd.Flag.StringVar(&opts.PositiveClass, "pos", opts.PositiveClass, "Positive (coreferent) class")
	cmd.Flag.StringVar(&columns.Doc, "doccol", columns.Doc, "Document id column")
	cmd.Flag.StringVar(&columns.Class, "classcol", columns.Class, "Class column")
	return cmd
}
