package storefront

import "fmt"

// ImageInfo is the flattened view of a product image used by tool output.
type ImageInfo struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Size    string `json:"size"`
	View    string `json:"view"`
	Primary bool   `json:"isPrimary"`
}

// ExtractImages flattens a product's image records, resolving relative image
// paths against assetBase.
func ExtractImages(product *Product, assetBase string) []ImageInfo {
	if product == nil || len(product.Images) == 0 {
		return nil
	}

	infos := make([]ImageInfo, 0, len(product.Images))
	for _, img := range product.Images {
		url := img.EffectiveURL
		if url != "" && url[0] == '/' {
			url = assetBase + url
		}
		infos = append(infos, ImageInfo{
			Type:    img.TypeID,
			URL:     url,
			Size:    fmt.Sprintf("%dx%d", img.Width, img.Height),
			View:    img.ViewID,
			Primary: img.Primary,
		})
	}
	return infos
}

// FormatAttributes collapses a product's attribute list into a name-keyed map.
func FormatAttributes(product *Product) map[string]string {
	if product == nil || len(product.Attributes) == 0 {
		return nil
	}

	formatted := make(map[string]string, len(product.Attributes))
	for _, attr := range product.Attributes {
		formatted[attr.Name] = fmt.Sprintf("%v", attr.Value)
	}
	return formatted
}
