package http

import (
	"net/http"

	"rentabilidad/internal/core"
	"rentabilidad/internal/services"
)

// productView adds the derived stock status and unit margin to a product.
type productView struct {
	core.Product
	StockStatus core.StockStatus `json:"stockStatus"`
	UnitMargin  float64          `json:"unitMargin"`
}

func productViews(products []core.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, StockStatus: p.StockStatus(), UnitMargin: p.UnitMargin()})
	}
	return out
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.GetBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "list_products", err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(b.Products))
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.LowStock(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "low_stock", err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(list))
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (core.Product, error) {
	var p core.Product
	if err := decodeJSON(w, r, &p); err != nil {
		return core.Product{}, err
	}
	p.Name = sanitizeInput(p.Name)
	p.Category = sanitizeInput(p.Category)
	p.Description = sanitizeInput(p.Description)
	return p, nil
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProduct(w, r)
	if err != nil {
		writeError(w, r, services.OpProductAdded, err)
		return
	}
	p.ID = ""
	out, err := s.svc.AddProduct(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, services.OpProductAdded, err)
		return
	}
	writeJSON(w, http.StatusCreated, productViews([]core.Product{out})[0])
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProduct(w, r)
	if err != nil {
		writeError(w, r, services.OpProductUpdated, err)
		return
	}
	p.ID = r.PathValue("pid")
	out, err := s.svc.UpdateProduct(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, services.OpProductUpdated, err)
		return
	}
	writeJSON(w, http.StatusOK, productViews([]core.Product{out})[0])
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProduct(r.Context(), r.PathValue("id"), r.PathValue("pid")); err != nil {
		writeError(w, r, services.OpProductDeleted, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
