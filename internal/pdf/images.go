package pdf

import (
	"github.com/ledongthuc/pdf"
)

// extractPageImages lists the image XObjects referenced by one page.
// Image dictionaries in the wild are frequently malformed, so the walk
// recovers from panics and returns whatever was gathered before the
// failure.
func extractPageImages(r *pdf.Reader, pageNum int) []ImageInfo {
	var images []ImageInfo

	defer func() {
		if recover() != nil {
			// Resource walk failed mid-page; keep what we have.
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return images
	}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return images
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return images
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		subtype := obj.Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		if info := imageInfoFromXObject(obj, pageNum); info != nil {
			info.Index = len(images) + 1
			images = append(images, *info)
		}
	}

	return images
}

// imageInfoFromXObject reads the dimensions and encoding of a single image
// XObject. Returns nil when the dictionary lacks usable dimensions.
func imageInfoFromXObject(obj pdf.Value, pageNum int) (info *ImageInfo) {
	defer func() {
		if recover() != nil {
			info = nil
		}
	}()

	info = &ImageInfo{
		PageNumber: pageNum,
		Format:     "unknown",
	}

	if width := obj.Key("Width"); !width.IsNull() {
		info.Width = int(width.Int64())
	}
	if height := obj.Key("Height"); !height.IsNull() {
		info.Height = int(height.Int64())
	}
	if filter := obj.Key("Filter"); !filter.IsNull() {
		info.Format = normalizeImageFormat(filter.Name())
	}
	if colorSpace := obj.Key("ColorSpace"); !colorSpace.IsNull() {
		// Named spaces only; ICC and indexed arrays have no single name.
		info.ColorSpace = colorSpace.Name()
	}

	info.BitsPerComponent = 8
	if bpc := obj.Key("BitsPerComponent"); !bpc.IsNull() {
		info.BitsPerComponent = int(bpc.Int64())
	}

	if info.Width <= 0 || info.Height <= 0 {
		return nil
	}

	// Rough decoded-size estimate assuming three components.
	info.Size = int64(info.Width * info.Height * (info.BitsPerComponent / 8) * 3)
	return info
}

// normalizeImageFormat maps PDF stream filter names to familiar format
// labels.
func normalizeImageFormat(filterName string) string {
	switch filterName {
	case "DCTDecode":
		return "JPEG"
	case "JPXDecode":
		return "JPEG2000"
	case "CCITTFaxDecode":
		return "TIFF/Fax"
	case "JBIG2Decode":
		return "JBIG2"
	case "FlateDecode":
		return "PNG/Deflate"
	case "LZWDecode":
		return "LZW"
	case "RunLengthDecode":
		return "RLE"
	default:
		if filterName != "" {
			return filterName
		}
		return "unknown"
	}
}
