package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-modelkit/pkg/codec"
	"github.com/goliatone/go-modelkit/pkg/model"
	"github.com/goliatone/go-modelkit/pkg/openapi"
)

func main() {
	source := flag.String("source", "", "OpenAPI document path")
	modelName := flag.String("model", "", "component schema to inspect (prompts when empty)")
	payload := flag.String("payload", "", "payload file to decode and validate against the model")
	format := flag.String("format", "json", "payload format: json or yaml")
	strict := flag.Bool("strict", false, "reject payload keys that match no field")
	flag.Parse()

	if *source == "" {
		log.Fatal("missing -source")
	}

	doc, err := openapi.LoadDocument(openapi.SourceFromFile(*source))
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	parser := openapi.NewParser(openapi.ParserOptions{})
	definitions, err := parser.Definitions(context.Background(), doc)
	if err != nil {
		log.Fatalf("Failed to derive definitions: %v", err)
	}

	name, err := pickModel(*modelName, definitions)
	if err != nil {
		log.Fatalf("Failed to select model: %v", err)
	}
	def := definitions[name]

	printDefinition(def)

	if *payload == "" {
		return
	}
	if err := checkPayload(def, *payload, *format, *strict); err != nil {
		var validation *model.ModelValidationError
		if errors.As(err, &validation) {
			fmt.Println("payload is invalid:")
			for _, violation := range validation.Violations {
				fmt.Printf("  %s: %v\n", violation.Path, violation.Err)
			}
			os.Exit(1)
		}
		log.Fatalf("Failed to check payload: %v", err)
	}
	fmt.Println("payload is valid")
}

func pickModel(name string, definitions map[string]*model.Type) (string, error) {
	if name != "" {
		if _, ok := definitions[name]; !ok {
			return "", fmt.Errorf("no component schema named %q", name)
		}
		return name, nil
	}

	names := make([]string, 0, len(definitions))
	for candidate := range definitions {
		names = append(names, candidate)
	}
	sort.Strings(names)
	if len(names) == 1 {
		return names[0], nil
	}

	prompt := &survey.Select{
		Message: "Model:",
		Options: names,
	}
	var choice string
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

func printDefinition(def *model.Type) {
	if def.IsPolymorphic() {
		fmt.Printf("%s (polymorphic, tag key %q)\n", def.Name(), def.TagKey())
		for _, tag := range def.Variants() {
			fmt.Printf("  %s\n", tag)
		}
		return
	}
	fmt.Println(def.Name())
	for _, field := range def.Fields() {
		requirement := "optional"
		if field.Spec.Required() {
			requirement = "required"
		}
		fmt.Printf("  %-24s %-16s %s\n", field.Name, field.Spec.Type().Name(), requirement)
	}
}

func checkPayload(def *model.Type, path, format string, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	var c codec.Codec
	switch format {
	case "json":
		c = codec.JSON{}
	case "yaml":
		c = codec.YAML{}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	var opts []model.Option
	if strict {
		opts = append(opts, model.Strict())
	}
	inst, err := c.Unmarshal(data, def, opts...)
	if err != nil {
		return err
	}
	return inst.Validate()
}
