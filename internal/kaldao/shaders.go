package kaldao

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const quadVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;

void main() {
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// fieldFragSrc is the GPU twin of shade.go. Every non-speed parameter is a
// u_<key> uniform filled from the same binding table the merge step uses;
// the four clocks and the palette arrive through the dedicated uniforms.
// Keep the two in step: a change here without the matching change in
// shade.go (or the other way around) makes -out screenshots disagree with
// the window.
const fieldFragSrc = `#version 410 core

uniform vec2  uResolution;
uniform float uDistance;
uniform float uRotation;
uniform float uPlaneRot;
uniform float uColorPhase;
uniform vec3  uPalA;
uniform vec3  uPalB;
uniform vec3  uPalC;
uniform vec3  uPalD;
uniform int   uColorEnabled;
uniform int   uInvert;

uniform float u_zoom_level;
uniform float u_kaleidoscope_segments;
uniform float u_truchet_radius;
uniform float u_center_fill_radius;
uniform float u_layer_count;
uniform float u_contrast;
uniform float u_color_intensity;
uniform float u_path_stability;
uniform float u_path_scale;
uniform float u_camera_tilt_x;
uniform float u_camera_tilt_y;
uniform float u_camera_roll;
uniform float u_path_freq_primary;
uniform float u_path_freq_secondary;
uniform float u_path_freq_tertiary;
uniform float u_path_amp_primary;
uniform float u_path_amp_secondary;
uniform float u_path_amp_tertiary;
uniform float u_camera_fov;
uniform float u_camera_bank;
uniform float u_plane_spacing;
uniform float u_fade_near;
uniform float u_fade_far;
uniform float u_layer_opacity;
uniform float u_depth_jitter;
uniform float u_speed_jitter;
uniform float u_fold_smoothing;
uniform float u_stroke_width;
uniform float u_pattern_balance;
uniform float u_grid_density;
uniform float u_detail_frequency;
uniform float u_detail_strength;
uniform float u_palette_shift;
uniform float u_palette_frequency;
uniform float u_depth_dimming;
uniform float u_sky_brightness;
uniform float u_saturation;
uniform float u_line_darkness;
uniform float u_gamma;
uniform float u_scurve_strength;
uniform float u_vignette_strength;
uniform float u_vignette_softness;
uniform float u_exposure;
uniform float u_aa_width;

out vec4 FragColor;

const float PI = 3.14159265358979;
const float OPACITY_CUTOFF = 0.95;
const float BASIS_EPS = 0.1;
const float SKY_LUM = 0.06;
const int MAX_LAYERS = 10;

float hash21(vec2 p) {
    return fract(sin(p.x * 127.1 + p.y * 311.7) * 43758.5453123);
}

float hash11(float x) {
    return fract(sin(x * 12.9898) * 13758.5453);
}

float sabs(float x, float k) {
    return sqrt(x * x + k * k) - k;
}

float foldAngle(float a, float n, float smoothing) {
    float w = 2.0 * PI / n;
    float k = smoothing * w * 0.25;
    float m = mod(a, 2.0 * w) - w;
    float folded = sabs(m, k);
    return w - sabs(w - folded, k);
}

vec2 truchetField(vec2 p, float radius, float balance) {
    vec2 ip = floor(p);
    vec2 fp = p - ip - 0.5;
    float h = hash21(ip);

    float tA = 0.5 * balance;
    float tB = balance;
    float tC = balance + 0.5 * (1.0 - balance);

    float d;
    if (h < tA) {
        d = min(abs(length(fp - vec2(0.5, 0.5)) - radius),
                abs(length(fp + vec2(0.5, 0.5)) - radius));
    } else if (h < tB) {
        d = min(abs(length(fp - vec2(-0.5, 0.5)) - radius),
                abs(length(fp - vec2(0.5, -0.5)) - radius));
    } else if (h < tC) {
        d = min(abs(fp.x + fp.y), abs(fp.x - fp.y)) * 0.70710678118;
    } else {
        d = min(abs(fp.x), abs(fp.y));
    }
    return vec2(d, h);
}

vec2 pathOffset(float z) {
    vec2 curved = vec2(
        u_path_amp_primary * sin(u_path_freq_primary * z)
            + u_path_amp_secondary * sin(u_path_freq_secondary * z)
            + u_path_amp_tertiary * sin(u_path_freq_tertiary * z),
        u_path_amp_primary * cos(u_path_freq_primary * z)
            + u_path_amp_secondary * cos(u_path_freq_secondary * z)
            + u_path_amp_tertiary * cos(u_path_freq_tertiary * z));
    curved *= u_path_scale * (1.0 - u_path_stability);
    return curved + vec2(u_camera_tilt_x, u_camera_tilt_y) * z;
}

void cameraBasis(out vec3 ro, out vec3 rt, out vec3 up, out vec3 fw) {
    float z = uDistance;
    vec2 o0 = pathOffset(z);
    vec2 oPrev = pathOffset(z - BASIS_EPS);
    vec2 oNext = pathOffset(z + BASIS_EPS);

    fw = normalize(vec3((oNext - oPrev) / (2.0 * BASIS_EPS), 1.0));
    float accelX = (oNext.x + oPrev.x - 2.0 * o0.x) / (BASIS_EPS * BASIS_EPS);
    vec3 upRef = vec3(-accelX * u_camera_bank * 0.3, 1.0, 0.0);
    rt = normalize(cross(upRef, fw));
    up = cross(fw, rt);
    ro = vec3(o0, z);
}

vec2 planePattern(vec2 q, float layerID, float t, float pix) {
    float r0 = length(q);

    float h1 = hash11(layerID + 1.0);
    float h2 = hash11(layerID + 13.7);
    float h3 = hash11(layerID + 31.3);

    q += (vec2(h2, h3) - 0.5) * 2.0 * u_depth_jitter;

    float ang = uPlaneRot * (1.0 + (h2 - 0.5) * u_speed_jitter) + h1 * 2.0 * PI;
    float ca = cos(ang);
    float sa = sin(ang);
    q = vec2(ca * q.x - sa * q.y, sa * q.x + ca * q.y);

    float a = atan(q.y, q.x);
    float rr = length(q);
    float folded = foldAngle(a, u_kaleidoscope_segments, u_fold_smoothing) + uRotation;

    float scale = u_zoom_level * u_grid_density;
    vec2 uv = vec2(cos(folded), sin(folded)) * rr * scale;

    float d = truchetField(uv, u_truchet_radius, u_pattern_balance).x;

    float aaw = u_aa_width * pix * t / u_camera_fov * abs(scale);
    float m = 1.0 - smoothstep(u_stroke_width - aaw, u_stroke_width + aaw, d);

    float stripe = 0.5 + 0.5 * cos(d * u_detail_frequency);
    float lum = m * (1.0 - u_detail_strength * stripe) * (1.0 - u_line_darkness);

    float aawPlane = u_aa_width * pix * t / u_camera_fov;
    float fill = 1.0 - smoothstep(u_center_fill_radius - aawPlane, u_center_fill_radius + aawPlane, r0);
    if (u_center_fill_radius <= 0.0) fill = 0.0;

    return vec2(max(lum, fill), max(m, fill));
}

float march(vec3 ro, vec3 rd, float pix) {
    float col = 0.0;
    float acc = 0.0;
    if (rd.z > 1e-6) {
        float spacing = u_plane_spacing;
        float first = (floor(ro.z / spacing) + 1.0) * spacing;
        for (int i = 0; i < MAX_LAYERS; i++) {
            if (float(i) >= u_layer_count) break;
            float planeZ = first + float(i) * spacing;
            float t = (planeZ - ro.z) / rd.z;
            if (t <= 0.0) continue;
            if (t > u_fade_far) break;

            vec2 off = pathOffset(planeZ);
            float layerID = round(planeZ / spacing);
            vec2 lc = planePattern(ro.xy + rd.xy * t - off, layerID, t, pix);

            float a = lc.y * u_layer_opacity
                * smoothstep(0.0, u_fade_near, t)
                * (1.0 - smoothstep(u_fade_far * 0.6, u_fade_far, t));
            float lum = lc.x * (1.0 - u_depth_dimming * clamp(t / u_fade_far, 0.0, 1.0));

            col += (1.0 - acc) * a * lum;
            acc += (1.0 - acc) * a;
            if (acc >= OPACITY_CUTOFF) break;
        }
    }
    col += (1.0 - acc) * SKY_LUM * u_sky_brightness;
    return col;
}

vec3 contrastCurve(vec3 c) {
    c = clamp((c - 0.5) * u_contrast + 0.5, 0.0, 1.0);
    return mix(c, c * c * (3.0 - 2.0 * c), u_scurve_strength);
}

vec3 post(float lum, vec2 uv) {
    vec3 c;
    if (uColorEnabled == 1) {
        float t = lum * u_palette_frequency + uColorPhase + u_palette_shift;
        vec3 pal = clamp(uPalA + uPalB * cos(2.0 * PI * (uPalC * t + uPalD)), 0.0, 1.0);
        c = pal * lum * u_color_intensity;
    } else {
        c = vec3(clamp(lum * u_color_intensity, 0.0, 1.0));
    }

    c = pow(max(c, 0.0), vec3(1.0 / u_gamma));
    c = contrastCurve(c);

    float luma = dot(c, vec3(0.2126, 0.7152, 0.0722));
    c = mix(vec3(luma), c, u_saturation);

    float vig = clamp(1.0 - u_vignette_strength * smoothstep(u_vignette_softness, 1.5, length(uv)), 0.0, 1.0);
    c *= vig * u_exposure;

    if (uInvert == 1) c = 1.0 - c;
    return clamp(c, 0.0, 1.0);
}

void main() {
    vec2 uv = (2.0 * gl_FragCoord.xy - uResolution) / uResolution.y;
    float pix = 2.0 / uResolution.y;

    vec3 ro, rt, up, fw;
    cameraBasis(ro, rt, up, fw);

    float cr = cos(u_camera_roll);
    float sr = sin(u_camera_roll);
    vec2 ruv = vec2(uv.x * cr - uv.y * sr, uv.x * sr + uv.y * cr);
    vec3 rd = normalize(rt * ruv.x + up * ruv.y + fw * u_camera_fov);

    float lum = march(ro, rd, pix);
    FragColor = vec4(post(lum, uv), 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
