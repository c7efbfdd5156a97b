package generator

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/typemap"
)

// renderPipelineSource produces pipelines/pipeline.go: the user's pipeline
// function verbatim, preceded by one stub per component that records the
// invocation as a task. Running the pipeline function therefore builds the
// ordered task list instead of executing anything.
func renderPipelineSource(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package main\n\n")

	b.WriteString("// task is one recorded component invocation.\n")
	b.WriteString("type task struct {\n")
	b.WriteString("\tName      string         `json:\"name\"`\n")
	b.WriteString("\tImage     string         `json:\"image\"`\n")
	b.WriteString("\tArguments map[string]any `json:\"arguments\"`\n")
	b.WriteString("}\n\n")
	b.WriteString("var tasks []task\n\n")
	fmt.Fprintf(&b, "const componentImage = %q\n\n", ContainerImage(ctx.Record))
	b.WriteString("func addTask(name string, args map[string]any) {\n")
	b.WriteString("\ttasks = append(tasks, task{Name: name, Image: componentImage, Arguments: args})\n")
	b.WriteString("}\n\n")

	for _, c := range ctx.Components {
		if c.ReturnSource != "" {
			b.WriteString(c.ReturnSource + "\n\n")
		}
		params := make([]string, 0, len(c.Parameters))
		argEntries := make([]string, 0, len(c.Parameters))
		for _, p := range c.Parameters {
			goType, err := goTypeFor(p.Type)
			if err != nil {
				return nil, err
			}
			params = append(params, p.Name+" "+goType)
			argEntries = append(argEntries, fmt.Sprintf("%q: %s", p.Name, p.Name))
		}
		returnType := returnTypeName(c.ReturnSource)
		fmt.Fprintf(&b, "func %s(%s)", c.Name, strings.Join(params, ", "))
		if returnType != "" {
			b.WriteString(" " + returnType)
		}
		b.WriteString(" {\n")
		fmt.Fprintf(&b, "\taddTask(%q, map[string]any{%s})\n", c.Name, strings.Join(argEntries, ", "))
		if returnType != "" {
			fmt.Fprintf(&b, "\treturn %s{}\n", returnType)
		}
		b.WriteString("}\n\n")
	}

	b.WriteString(ctx.Pipeline.SourceBody + "\n")
	return []byte(b.String()), nil
}

// renderPipelineRunner produces pipelines/runner.go: the entry point that
// decodes the runtime parameter values, replays the pipeline function to
// collect its task list, and writes the compiled job spec.
func renderPipelineRunner(ctx *Context) ([]byte, error) {
	decl, err := pipelineDecl(ctx.Pipeline.SourceBody)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package main\n\n")
	b.WriteString("import (\n\t\"encoding/json\"\n\t\"flag\"\n\t\"log\"\n\t\"os\"\n)\n\n")

	b.WriteString("type jobSpec struct {\n")
	b.WriteString("\tDisplayName     string          `json:\"displayName\"`\n")
	b.WriteString("\tPipelineRoot    string          `json:\"pipelineRoot\"`\n")
	b.WriteString("\tTasks           []task          `json:\"tasks\"`\n")
	b.WriteString("\tParameterValues json.RawMessage `json:\"parameterValues\"`\n")
	b.WriteString("}\n\n")

	b.WriteString("func main() {\n")
	fmt.Fprintf(&b, "\tparamsPath := flag.String(\"params\", %q, \"runtime parameter values\")\n", "runtime_parameters/pipeline_parameter_values.json")
	fmt.Fprintf(&b, "\tspecPath := flag.String(\"spec\", %q, \"compiled job spec destination\")\n", "../"+ctx.Record.Pipeline.PipelineJobSpecPath)
	b.WriteString("\tflag.Parse()\n\n")
	b.WriteString("\traw, err := os.ReadFile(*paramsPath)\n")
	b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"read parameter values: %v\", err)\n\t}\n")

	if len(decl.params) > 0 {
		b.WriteString("\tvar args struct {\n")
		for _, p := range decl.params {
			fmt.Fprintf(&b, "\t\t%s %s `json:%q`\n", exportName(p.name), p.goType, p.name)
		}
		b.WriteString("\t}\n")
		b.WriteString("\tif err := json.Unmarshal(raw, &args); err != nil {\n\t\tlog.Fatalf(\"decode parameter values: %v\", err)\n\t}\n")
		callArgs := make([]string, 0, len(decl.params))
		for _, p := range decl.params {
			callArgs = append(callArgs, "args."+exportName(p.name))
		}
		fmt.Fprintf(&b, "\t%s(%s)\n\n", decl.name, strings.Join(callArgs, ", "))
	} else {
		fmt.Fprintf(&b, "\t%s()\n\n", decl.name)
	}

	b.WriteString("\tspec := jobSpec{\n")
	fmt.Fprintf(&b, "\t\tDisplayName:     %q,\n", ctx.Pipeline.Name)
	fmt.Fprintf(&b, "\t\tPipelineRoot:    %q,\n", ctx.Record.Pipeline.StoragePath)
	b.WriteString("\t\tTasks:           tasks,\n")
	b.WriteString("\t\tParameterValues: raw,\n")
	b.WriteString("\t}\n")
	b.WriteString("\tbody, err := json.MarshalIndent(spec, \"\", \"  \")\n")
	b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"encode job spec: %v\", err)\n\t}\n")
	b.WriteString("\tif err := os.WriteFile(*specPath, body, 0o644); err != nil {\n\t\tlog.Fatalf(\"write job spec: %v\", err)\n\t}\n")
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func renderPipelineRequirements(*Context) ([]byte, error) {
	return []byte(aiplatformModule + "\ngoogle.golang.org/api\n"), nil
}

// renderParameterValues writes the runtime parameters, always including the
// resolved spec path so the submission side needs no extra configuration.
func renderParameterValues(ctx *Context) ([]byte, error) {
	values := make(map[string]any, len(ctx.Params)+1)
	for k, v := range ctx.Params {
		values[k] = v
	}
	values["gs_pipeline_spec_path"] = ctx.Record.Pipeline.GSPipelineJobSpecPath
	body, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode parameter values: %w", err)
	}
	return append(body, '\n'), nil
}

type pipelineParam struct {
	name   string
	goType string
}

type pipelineFunc struct {
	name   string
	params []pipelineParam
}

// pipelineDecl recovers the pipeline function's name and parameter list
// from its source body.
func pipelineDecl(sourceBody string) (*pipelineFunc, error) {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, "pipeline.go", "package main\n\n"+sourceBody, 0)
	if err != nil {
		return nil, fmt.Errorf("parse pipeline source: %w", err)
	}
	for _, d := range parsed.Decls {
		decl, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		pf := &pipelineFunc{name: decl.Name.Name}
		if decl.Type.Params != nil {
			for _, field := range decl.Type.Params.List {
				goType := typemap.ExprString(field.Type)
				for _, ident := range field.Names {
					pf.params = append(pf.params, pipelineParam{name: ident.Name, goType: goType})
				}
			}
		}
		return pf, nil
	}
	return nil, fmt.Errorf("pipeline source holds no function declaration")
}

// returnTypeName extracts the declared type name from a return struct
// declaration, or empty when there is none.
func returnTypeName(returnSource string) string {
	rest := strings.TrimPrefix(returnSource, "type ")
	if rest == returnSource {
		return ""
	}
	if i := strings.IndexAny(rest, " \t"); i > 0 {
		return rest[:i]
	}
	return ""
}
