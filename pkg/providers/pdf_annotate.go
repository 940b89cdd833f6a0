package providers

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/nodewee/doc-highlight/pkg/match"
	"github.com/nodewee/doc-highlight/pkg/output"
	"github.com/nodewee/doc-highlight/pkg/overlay"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

// annotation print flag
const annotFlagPrint = 4

// writePDFOverlay re-saves every page of input to outputPath with one
// unfilled /Square annotation per geometric location
func writePDFOverlay(input, outputPath string, locations []match.Location, style overlay.Style) error {
	f, err := os.Open(input)
	if err != nil {
		return utils.WrapError(err, "", "failed to open PDF")
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return utils.NewMalformedInputError(fmt.Sprintf("cannot read PDF %s", input), err)
	}

	byPage := make(map[int][]match.Rect)
	for _, loc := range locations {
		if g, ok := loc.(match.Geometric); ok {
			byPage[g.Page] = append(byPage[g.Page], g.Rect)
		}
	}

	for pageNum := 1; pageNum <= ctx.PageCount; pageNum++ {
		rects := byPage[pageNum]
		if len(rects) == 0 {
			continue
		}
		if err := addSquareAnnotations(ctx, pageNum, rects, style); err != nil {
			return err
		}
	}

	return output.WriteFile(outputPath, func(w io.Writer) error {
		if err := api.WriteContext(ctx, w); err != nil {
			return utils.NewIOError("failed to write annotated PDF", err)
		}
		return nil
	})
}

func addSquareAnnotations(ctx *model.Context, pageNum int, rects []match.Rect, style overlay.Style) error {
	pageDict, pageRef, _, err := ctx.PageDict(pageNum, false)
	if err != nil || pageDict == nil {
		return utils.NewMalformedInputError(fmt.Sprintf("cannot access page %d", pageNum), err)
	}

	var annots types.Array
	if existing, ok := pageDict.Find("Annots"); ok {
		arr, err := ctx.DereferenceArray(existing)
		if err != nil {
			return utils.NewMalformedInputError(fmt.Sprintf("invalid /Annots on page %d", pageNum), err)
		}
		annots = append(annots, arr...)
	}

	rgb := overlay.PDFColor(style.Color)
	for _, r := range rects {
		annot := types.Dict{
			"Type":    types.Name("Annot"),
			"Subtype": types.Name("Square"),
			"Rect":    types.NewNumberArray(r.X0, r.Y0, r.X1, r.Y1),
			"C":       types.NewNumberArray(rgb[0], rgb[1], rgb[2]),
			"Border":  types.NewNumberArray(0, 0, style.PDFWidth),
			"BS": types.Dict{
				"Type": types.Name("Border"),
				"W":    types.Float(style.PDFWidth),
				"S":    types.Name("S"),
			},
			"F": types.Integer(annotFlagPrint),
		}
		if pageRef != nil {
			annot["P"] = *pageRef
		}
		ref, err := ctx.IndRefForNewObject(annot)
		if err != nil {
			return utils.NewSystemError("failed to register annotation", err)
		}
		annots = append(annots, *ref)
	}

	pageDict["Annots"] = annots
	return nil
}
