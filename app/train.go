package app

import (
	"log"
	"time"

	"coref/alg/perceptron"
	"coref/eval"
	"coref/nlp/coref"
	"coref/nlp/format/pairs"
	"coref/util"

	"github.com/cheggaaa/pb/v3"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func TrainConfigOut() {
	log.Println("Configuration")
	log.Printf("Iterations:\t\t%d", opts.Iterations)
	log.Printf("Margin:\t\t\t%v", opts.Margin)
	log.Printf("Epsilon:\t\t%v", opts.Epsilon)
	log.Printf("Class weights:\t\t%v/%v", opts.PositiveWeight, opts.NegativeWeight)
	log.Printf("Max corrections:\t%d", opts.MaxCorrections)
	log.Printf("Shuffle:\t\t%v (seed %d)", opts.Shuffle, opts.Seed)
	ModelConfigOut()
	log.Println()
	log.Println("Data")
	log.Printf("Train file:\t\t%s", input)
	if heldoutFile != "" {
		log.Printf("Heldout file:\t\t%s", heldoutFile)
	}
	if classesFile != "" {
		log.Printf("Classes file:\t\t%s", classesFile)
	}
	log.Printf("Out (model) file:\t%s", modelFile)
	log.Println()
}

func readPairs(file string) (*coref.Dataset, error) {
	ds, err := pairs.ReadFile(file, columns)
	if err != nil {
		return nil, err
	}
	if allOut {
		log.Println("Read", ds.Len(), "pairs in", len(ds.Documents()), "documents from", file)
	}
	return ds, nil
}

// evaluateModel applies a binary model to ds and logs the report.
func evaluateModel(m perceptron.Model, ds *coref.Dataset, prefix string) (*eval.Report, error) {
	report, err := coref.ApplyAndEvaluate(NewApplier(m), ds)
	if err != nil {
		return nil, err
	}
	report.Log(prefix)
	return report, nil
}

func CorefTrain(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"f", "m"}); err != nil {
		return err
	}
	if err := LoadOptions(cmd); err != nil {
		return err
	}
	if err := VerifyFiles(input, heldoutFile, classesFile); err != nil {
		return err
	}
	if allOut {
		TrainConfigOut()
	}
	classes, err := ReadClasses()
	if err != nil {
		return err
	}
	train, err := readPairs(input)
	if err != nil {
		return err
	}
	var heldout *coref.Dataset
	if heldoutFile != "" {
		if heldout, err = readPairs(heldoutFile); err != nil {
			return err
		}
	}
	if allOut {
		util.LogMemory()
	}

	metrics := NewMetrics()
	if metricsAddr != "" {
		metrics.Serve(metricsAddr)
	}
	total := opts.Iterations
	if len(classes) > 0 {
		total *= len(classes)
	}
	bar := pb.StartNew(total)
	epochStart := time.Now()
	onEpoch := func(stats perceptron.EpochStats, snapshot perceptron.Model) {
		metrics.ObserveEpoch(stats, time.Since(epochStart))
		if heldout != nil && len(classes) == 0 {
			report, err := evaluateModel(scoring(snapshot), heldout, "")
			if err != nil {
				log.Println("Heldout evaluation failed:", err)
			} else {
				metrics.ObserveReport(report)
			}
		}
		bar.Increment()
		epochStart = time.Now()
	}
	trainer, err := BuildTrainer(heldout, onEpoch)
	if err != nil {
		return err
	}

	final := train
	if heldout != nil {
		final = heldout
	}
	startTime := time.Now()
	if len(classes) == 0 {
		model, err := trainer(train, opts.PositiveClass)
		bar.Finish()
		if err != nil {
			return err
		}
		log.Println("TRAIN Total Time:", time.Since(startTime))
		if err := WriteModel(modelFile, model); err != nil {
			return err
		}
		report, err := evaluateModel(model, final, "Final ")
		if err != nil {
			return err
		}
		metrics.ObserveFinal(report, len(final.Documents()))
		return nil
	}

	models, err := perceptron.TrainOneVsRest(trainer, train, classes)
	bar.Finish()
	if err != nil {
		return err
	}
	log.Println("TRAIN Total Time:", time.Since(startTime))
	for _, class := range classes {
		if err := WriteModel(ClassModelFile(modelFile, class), models[class]); err != nil {
			return err
		}
	}
	if err := coref.Classify(final, models, classes); err != nil {
		return err
	}
	report, err := coref.Evaluate(final, opts.PositiveClass, CPUs)
	if err != nil {
		return err
	}
	report.Log("Final ")
	metrics.ObserveFinal(report, len(final.Documents()))
	return nil
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       CorefTrain,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a pairwise coreference perceptron",
		Long: `
trains a pairwise coreference perceptron

	$ ./coref train -f <pairs tsv> -m <model file> [-d <heldout pairs tsv>] [options]

With -kernel none an explicit weight vector is trained and written as a weight file,
one weight per line followed by the threshold. Any other kernel writes a gob model.
With -classes one model is trained per class and written to <model file>.<class>.

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "f", "", "Training pairs TSV file")
	cmd.Flag.StringVar(&heldoutFile, "d", "", "Heldout pairs TSV file, evaluated after every epoch")
	cmd.Flag.StringVar(&modelFile, "m", "", "Out model file")
	cmd.Flag.StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics and pprof on this address")
	cmd.Flag.IntVar(&opts.Iterations, "it", opts.Iterations, "Number of Perceptron Iterations")
	cmd.Flag.Float64Var(&opts.Margin, "margin", opts.Margin, "Margin; negative values are relative to the largest norm")
	cmd.Flag.Float64Var(&opts.Epsilon, "eps", opts.Epsilon, "Epsilon slack; negative values are relative to the largest norm")
	cmd.Flag.Float64Var(&opts.PositiveWeight, "pw", opts.PositiveWeight, "Update amount of positive examples")
	cmd.Flag.Float64Var(&opts.NegativeWeight, "nw", opts.NegativeWeight, "Update amount of negative examples")
	cmd.Flag.IntVar(&opts.MaxCorrections, "maxcorr", opts.MaxCorrections, "Abort kernel training after this many corrections; 0 = unbounded")
	cmd.Flag.BoolVar(&opts.Shuffle, "shuffle", opts.Shuffle, "Shuffle documents before training")
	cmd.Flag.Int64Var(&opts.Seed, "seed", opts.Seed, "Shuffle seed")
	cmd.Flag.BoolVar(&opts.Averaged, "avg", opts.Averaged, "Average the explicit weights over all steps")
	OptionFlags(&cmd.Flag, &opts)
	return cmd
}
