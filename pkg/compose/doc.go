// Package compose builds Microsoft Word documents (DOCX) from an ordered
// content plan.
//
// Go-compose turns headings, paragraphs of styled runs, bulleted and numbered
// lists, shaded tables, horizontal rules and page breaks into a standalone
// .docx package that opens in Word, LibreOffice and Google Docs with the
// intended colours, weights and spacing.
//
// # Quick Start
//
// The simplest way to use go-compose is through the package-level functions:
//
//	plan := compose.Plan{
//	    Meta: compose.Meta{Title: "Project Scope"},
//	    Blocks: []compose.Block{
//	        compose.Heading{Level: 1, Text: "Executive Summary"},
//	        compose.Paragraph{Runs: []compose.RunSpec{
//	            compose.Bold("Timeline: "),
//	            compose.Text("2-3 weeks"),
//	        }},
//	        compose.BulletList{Items: []compose.ListItem{
//	            compose.Item("Admin portal"),
//	            compose.Item("Client portal"),
//	        }},
//	        compose.Table{
//	            Header: []string{"Item", "Details"},
//	            Rows:   [][]string{{"Development", "Hourly"}},
//	        },
//	    },
//	}
//
//	if err := compose.RenderFile(plan, "scope.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sessions
//
// A Document is one composition session. It moves through the states
// Created, Styling, Composing and Finalized:
//
//	doc, err := compose.New(compose.WithConfig(cfg))
//	doc.DefineStyle("Callout", compose.StyleSpec{Name: "Callout", BasedOn: "Normal", Italic: true})
//	doc.Compose(blocks...)   // styles are frozen from here on
//	doc.Finalize()           // terminal
//	doc.WriteFile("out.docx")
//
// Compose is all-or-nothing per call: a block that fails validation leaves
// the document untouched and the error reports the block's index.
//
// # Styles
//
// Every document owns a fresh StyleRegistry seeded from the configuration:
// Normal, Title, Subtitle, Heading1 to Heading4, ListParagraph, Caption and
// the TableGrid table style. Colours come from the configured Palette.
//
// # Raw Properties
//
// Properties the typed node model does not cover are attached as structured
// xml.Element values through a Handle (see ShadingElement and
// BottomBorderElement). They are merged into pPr and tcPr in schema order.
//
// # Error Handling
//
// Errors are typed (ConfigurationError, ShapeError, StateError, IOError) and
// carry a stable ErrorCode. Use errors.Is with the sentinels:
//
//	if errors.Is(err, compose.ErrTableShapeMismatch) {
//	    var shape *compose.ShapeError
//	    errors.As(err, &shape)
//	    fmt.Println(shape.Block, shape.Row, shape.Expected, shape.Actual)
//	}
//
// # Configuration
//
// DefaultConfig, LoadConfig (YAML or TOML) and ConfigFromEnvironment build a
// Config; COMPOSE_* environment variables override file values:
//
//	COMPOSE_LOG_LEVEL=debug
//	COMPOSE_FONT_FAMILY=Arial
//	COMPOSE_PALETTE__ACCENT=0F766E
//
// # Verification
//
// ReadOutline and ReadOutlineFile parse a written package back into an
// ordered list of OutlineNode values. They exist to check output and never
// modify a package.
package compose
