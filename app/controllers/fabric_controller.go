package controllers

import (
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/ctx"
)

// FabricController serves the catalog and the admin writes. Every write
// goes through a fresh FabricEditor so HTTP and CLI share one workflow.
type FabricController struct {
	catalog *services.Catalog
	store   services.FabricStore
	images  services.ImageStore
}

func NewFabricController(catalog *services.Catalog, store services.FabricStore, images services.ImageStore) *FabricController {
	return &FabricController{catalog: catalog, store: store, images: images}
}

func (fc *FabricController) editor() *services.FabricEditor {
	return services.NewFabricEditor(fc.store, fc.images)
}

// Index lists fabrics filtered by ?search= and ?category=; ?featured=true
// keeps only featured ones.
func (fc *FabricController) Index(c *ctx.Context) {
	fabrics, err := fc.catalog.Search(c.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	if c.Query("featured") == "true" {
		fabrics = services.Featured(fabrics)
	}
	c.Success(fabrics)
}

func (fc *FabricController) Show(c *ctx.Context) {
	id, ok := fabricID(c)
	if !ok {
		return
	}
	f, err := fc.catalog.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(f)
}

func (fc *FabricController) Categories(c *ctx.Context) {
	cats, err := fc.catalog.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(cats)
}

func (fc *FabricController) Store(c *ctx.Context) {
	var in models.FabricFields
	if !c.BindJSON(&in) {
		return
	}

	ed := fc.editor()
	ed.Create()
	*ed.Draft() = in
	f, err := ed.Submit(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(f)
}

// Update replaces every field of the fabric; omitted optional fields revert
// to their defaults.
func (fc *FabricController) Update(c *ctx.Context) {
	id, ok := fabricID(c)
	if !ok {
		return
	}
	var in models.FabricFields
	if !c.BindJSON(&in) {
		return
	}

	current, err := fc.catalog.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ed := fc.editor()
	ed.Edit(current)
	*ed.Draft() = in
	f, err := ed.Submit(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(f)
}

func (fc *FabricController) Destroy(c *ctx.Context) {
	id, ok := fabricID(c)
	if !ok {
		return
	}
	if err := fc.editor().Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Fabric deleted successfully", nil)
}
