package app

import (
	"fmt"
	"log"

	"coref/nlp/format/pairs"
	"coref/util"
	"coref/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

const KERNEL_NONE = "none"

var (
	allOut bool = true

	// processing options, filled from flags and the -conf YAML file
	opts = conf.DefaultOptions()

	// file names
	input        string
	inputGold    string
	heldoutFile  string
	modelFile    string
	confFile     string
	classesFile  string
	outPredicted string
	outPartition string
	metricsAddr  string

	columns = pairs.DefaultColumns
)

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			return fmt.Errorf("required flag -%s not set", f.Name)
		}
	}
	return nil
}

func VerifyFiles(files ...string) error {
	for _, file := range files {
		if file != "" && !util.VerifyExists(file) {
			return fmt.Errorf("can not access %s", file)
		}
	}
	return nil
}

// OptionFlags binds the model flags shared by train and apply.
func OptionFlags(fs *flag.FlagSet, o *conf.Options) {
	fs.StringVar(&confFile, "conf", "", "YAML options file; flags given explicitly override it")
	fs.StringVar(&o.Kernel, "kernel", o.Kernel, "Kernel: none (explicit weights), linear, poly, quantized")
	fs.Float64Var(&o.Exponent, "exp", o.Exponent, "Polynomial kernel exponent")
	fs.IntVar(&o.Range, "range", o.Range, "Quantized kernel value range")
	fs.BoolVar(&o.Voted, "voted", o.Voted, "Score with the voted kernel perceptron")
	fs.Float64Var(&o.Scale, "scale", o.Scale, "Feature scale of explicit weight models")
	fs.Float64Var(&o.Threshold, "threshold", o.Threshold, "Decision threshold; pairs scoring above it are linked")
	fs.StringVar(&o.PositiveClass, "pos", o.PositiveClass, "Positive (coreferent) class")
	fs.StringVar(&o.NegativeClass, "neg", o.NegativeClass, "Negative class")
	fs.StringVar(&classesFile, "classes", "", "Classes file (one per line) for one-vs-rest models")
	fs.StringVar(&columns.Doc, "doccol", columns.Doc, "Document id column")
	fs.StringVar(&columns.Class, "classcol", columns.Class, "Class column")
}

// LoadOptions reads the -conf file, if any, into opts and then reapplies the flags
// that were set on the command line.
func LoadOptions(cmd *commander.Command) error {
	if confFile == "" {
		return nil
	}
	explicit := make(map[string]string)
	cmd.Flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	loaded, err := conf.ReadOptionsFile(confFile, conf.DefaultOptions())
	if err != nil {
		return fmt.Errorf("reading %s: %w", confFile, err)
	}
	opts = loaded
	for name, value := range explicit {
		if err := cmd.Flag.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func ReadClasses() ([]string, error) {
	if classesFile == "" {
		return nil, nil
	}
	classes, err := conf.ReadFile(classesFile)
	if err != nil {
		return nil, fmt.Errorf("reading classes file %s: %w", classesFile, err)
	}
	return classes.Values, nil
}

// ClassModelFile is the model file of one class of a one-vs-rest model.
func ClassModelFile(base, class string) string {
	return base + "." + class
}

func explicitWeights() bool {
	return opts.Kernel == KERNEL_NONE
}

func ModelConfigOut() {
	log.Printf("Kernel:\t\t\t%s", opts.Kernel)
	if explicitWeights() {
		log.Printf("Scale:\t\t\t%v", opts.Scale)
		log.Printf("Averaged:\t\t%v", opts.Averaged)
	} else {
		log.Printf("Exponent:\t\t%v", opts.Exponent)
		log.Printf("Range:\t\t\t%d", opts.Range)
		log.Printf("Voted:\t\t\t%v", opts.Voted)
	}
	log.Printf("Threshold:\t\t%v", opts.Threshold)
	log.Printf("Classes:\t\t%s/%s", opts.PositiveClass, opts.NegativeClass)
	log.Printf("CPUs:\t\t\t%d", CPUs)
}
